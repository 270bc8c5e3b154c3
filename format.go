package currency

import "github.com/shopspring/decimal"

// FormatAmount prints an amount with at most 6 decimal places and no trailing zeros.
func FormatAmount(value float64) string {
	return decimal.NewFromFloat(value).Round(6).String()
}
