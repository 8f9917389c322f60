// Package format renders calculation values for people: Korean won amounts,
// percentages and areas with thousands separators. Rounding happens here and
// nowhere earlier.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Korean)

// Won rounds half away from zero to a whole won and adds separators (e.g. "18,867원").
func Won(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(0).IntPart()
	return printer.Sprintf("%d원", rounded)
}

// PerSqm renders a per-square-meter amount to two places (e.g. "222.22원/㎡").
func PerSqm(amount float64) string {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return printer.Sprintf("%v원/㎡", number.Decimal(rounded, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Rate renders a percentage without trailing zeros (e.g. "20%", "12.5%").
func Rate(percent float64) string {
	return decimal.NewFromFloat(percent).Round(2).String() + "%"
}

// Area renders square meters with at most two decimals (e.g. "84.9㎡", "150,000㎡").
func Area(sqm float64) string {
	rounded, _ := decimal.NewFromFloat(sqm).Round(2).Float64()
	return printer.Sprintf("%v㎡", number.Decimal(rounded, number.MaxFractionDigits(2)))
}

// Months renders a month count with its year equivalent (e.g. "60개월 (5년)").
func Months(months int) string {
	years := decimal.NewFromInt(int64(months)).DivRound(decimal.NewFromInt(12), 1)
	return printer.Sprintf("%d개월 (%s년)", months, years.String())
}

// Fixed2 renders a value with exactly two decimals and no separators, for
// machine-readable output.
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
