package cli

import (
	"github.com/shopspring/decimal"
)

type labeled interface {
	Symbol() string
	String() string
}

// label prefers an entity's symbol, which is what users type.
func label(e labeled) string {
	if s := e.Symbol(); s != "" {
		return s
	}
	return e.String()
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatValue rounds v to at most precision fractional digits. Trailing
// zeros are dropped.
func formatValue(v decimal.Decimal, precision int) string {
	return v.Round(int32(precision)).String()
}
