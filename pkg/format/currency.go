// Package format renders money and percentages for human readers.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.German)

// RoundCents rounds an amount to whole cents, half away from zero, using the
// shortest decimal representation of the float.
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Euro returns an amount in German notation with the euro sign (e.g., "-1.234,56 €").
func Euro(amount float64) string {
	return NumericEuro(amount) + " €"
}

// NumericEuro returns an amount in German notation without a currency sign (e.g., "-1.234,56").
func NumericEuro(amount float64) string {
	rounded := RoundCents(amount)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return printer.Sprintf("%.2f", rounded)
}

// Percent returns a percentage with two decimals (e.g., "3,50 %").
func Percent(value float64) string {
	return printer.Sprintf("%.2f", value) + " %"
}
