package domain

import "github.com/shopspring/decimal"

// Product - товар из удаленного каталога. Ядро его никогда не изменяет.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
}

// ProductPage - одна страница ответа GET /products.
type ProductPage struct {
	Items []Product
	Total int
}

// Catalog - растущий снимок известных товаров с поиском по id.
// Нулевое значение готово к использованию.
type Catalog struct {
	products []Product
	index    map[int]int // id -> позиция в products
}

// NewCatalog собирает каталог из уже сохраненной последовательности товаров.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{}
	c.AppendPage(products)
	return c
}

// AppendPage добавляет страницу в конец каталога. Товары с уже известным id
// отбрасываются, сохраненная запись остается прежней.
// Возвращает количество реально добавленных товаров.
func (c *Catalog) AppendPage(items []Product) int {
	if c.index == nil {
		c.index = make(map[int]int, len(items))
	}

	added := 0
	for _, item := range items {
		if _, exists := c.index[item.ID]; exists {
			continue
		}
		c.index[item.ID] = len(c.products)
		c.products = append(c.products, item)
		added++
	}
	return added
}

// Lookup ищет товар по id. Отсутствие товара - не ошибка:
// позиция корзины может ссылаться на еще не загруженную страницу.
func (c *Catalog) Lookup(id int) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	pos, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[pos], true
}

// Products возвращает копию последовательности в порядке загрузки.
func (c *Catalog) Products() []Product {
	if c == nil {
		return []Product{}
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len - количество известных товаров.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// HasMore решает, стоит ли запрашивать следующую страницу:
// последняя страница пришла полной и загружено меньше, чем всего есть на сервере.
func HasMore(itemsReturned, pageSize, loadedCount, total int) bool {
	return itemsReturned == pageSize && loadedCount < total
}
