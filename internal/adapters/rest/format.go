package rest

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	currencySuffix  = " ₽"
	allLoadedText   = "Все товары загружены"
	shownCounterFmt = "Показано %d из %d товаров"
)

var ruPrinter = message.NewPrinter(language.Russian)

// FormatPrice - цена для показа в ru-RU: разряды через пробел, копейки через запятую.
func FormatPrice(price decimal.Decimal) string {
	if price.IsInteger() {
		return ruPrinter.Sprintf("%d", price.IntPart()) + currencySuffix
	}
	return ruPrinter.Sprintf("%v", number.Decimal(price.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2))) + currencySuffix
}

// CounterText - подпись под каталогом. Пустой каталог подписи не имеет.
func CounterText(loaded, total int, hasMore bool) string {
	if loaded == 0 {
		return ""
	}
	if !hasMore {
		return allLoadedText
	}
	return ruPrinter.Sprintf(shownCounterFmt, loaded, total)
}
