package domain

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity - верхняя граница количества одной позиции.
const MaxLineQuantity = math.MaxInt32

// Cart - отображение id товара в количество.
// Инвариант: ключи > 0, значения >= 1. Нулевые количества не хранятся.
type Cart map[int]int

// NewCart возвращает пустую корзину.
func NewCart() Cart {
	return make(Cart)
}

// WithQuantity возвращает новую корзину с установленным количеством.
// qty <= 0 удаляет позицию. Исходная корзина не изменяется.
func (c Cart) WithQuantity(productID, qty int) Cart {
	next := c.Clone()
	if qty <= 0 {
		delete(next, productID)
		return next
	}
	next[productID] = qty
	return next
}

// Without - то же самое, что WithQuantity(productID, 0).
func (c Cart) Without(productID int) Cart {
	return c.WithQuantity(productID, 0)
}

// Clone копирует корзину.
func (c Cart) Clone() Cart {
	next := make(Cart, len(c))
	for id, qty := range c {
		next[id] = qty
	}
	return next
}

// Normalized отбрасывает записи, нарушающие инвариант
// (например, прочитанные из поврежденного хранилища).
func (c Cart) Normalized() Cart {
	next := make(Cart, len(c))
	for id, qty := range c {
		if id > 0 && qty > 0 {
			next[id] = qty
		}
	}
	return next
}

func (c Cart) Quantity(productID int) int {
	return c[productID]
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// TotalItems - сумма всех количеств.
func (c Cart) TotalItems() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}

// TotalPrice считает стоимость корзины по снимку каталога.
// Товар, которого нет в снимке, дает нулевую цену, но учитывается в TotalItems.
func (c Cart) TotalPrice(catalog *Catalog) decimal.Decimal {
	total := decimal.Zero
	for id, qty := range c {
		product, ok := catalog.Lookup(id)
		if !ok {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// ProductIDs возвращает id товаров по возрастанию.
func (c Cart) ProductIDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
