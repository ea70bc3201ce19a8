package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatThousands renders n with comma thousands separators, e.g. 12,345.
func FormatThousands(n int) string {
	return printer.Sprint(number.Decimal(n))
}

// FormatAmount renders a float with thousands separators and at most three
// fraction digits, e.g. 2,762.5.
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
