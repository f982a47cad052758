// Package renderer turns engine outputs into markdown tables.
//
// The renderer is presentation glue: it never computes, it only formats what
// the aggregation engine produced. Page layout, charts and styling belong to
// whatever consumes the markdown.
package renderer

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currency is the reporting currency of the disclosure sources.
const currency = money.BRL

// formatMoney renders a monetary amount with its currency symbol and the
// locale's digit grouping.
func formatMoney(value decimal.Decimal) string {
	minor := value.Shift(2).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// formatPct renders a weight in percent with two decimals.
func formatPct(weight float64) string {
	return fmt.Sprintf("%.2f%%", weight)
}
