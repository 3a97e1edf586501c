package domain

import "github.com/shopspring/decimal"

// UnknownProductTitle подставляется для позиций, чьи товары еще не загружены.
const UnknownProductTitle = "Товар"

// CartLine - позиция корзины, обогащенная данными каталога.
type CartLine struct {
	ProductID int
	Title     string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	// Known == false, если товара нет в снимке каталога (цена считается нулевой).
	Known bool
}

// CartView - то, что показывает виджет корзины.
type CartView struct {
	Lines      []CartLine
	TotalItems int
	TotalPrice decimal.Decimal
	Phone      string
	Checkout   CheckoutStatus
}

// NewCartView собирает представление корзины. Позиции идут по возрастанию id.
func NewCartView(cart Cart, catalog *Catalog, phone string, status CheckoutStatus) CartView {
	lines := make([]CartLine, 0, len(cart))
	for _, id := range cart.ProductIDs() {
		qty := cart[id]
		line := CartLine{
			ProductID: id,
			Title:     UnknownProductTitle,
			Price:     decimal.Zero,
			Quantity:  qty,
		}
		if product, ok := catalog.Lookup(id); ok {
			line.Known = true
			line.Price = product.Price
			if product.Title != "" {
				line.Title = product.Title
			}
		}
		line.LineTotal = line.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, line)
	}

	return CartView{
		Lines:      lines,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(catalog),
		Phone:      phone,
		Checkout:   status,
	}
}

// CatalogPage - результат догрузки очередной страницы каталога.
type CatalogPage struct {
	Products []Product // весь известный каталог сессии
	Added    int       // сколько новых товаров принесла страница
	Total    int
	Page     int
	PageSize int
	HasMore  bool
}

// Loaded - сколько товаров уже известно.
func (p CatalogPage) Loaded() int {
	return len(p.Products)
}

// Storefront - данные для первой отрисовки витрины.
type Storefront struct {
	Reviews []Review
	Catalog CatalogPage
	Cart    CartView
}
