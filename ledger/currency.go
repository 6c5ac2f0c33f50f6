package ledger

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the symbol a new profile starts with.
const DefaultCurrency = "$"

// CurrencySymbol resolves s to a display symbol. ISO 4217 codes known to
// go-money map to their grapheme ("EUR" -> "€"); anything else non-empty is
// taken as the symbol itself. The symbol is cosmetic: no amounts are converted.
func CurrencySymbol(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid(FieldCurrency, "required")
	}
	if len(s) == 3 {
		if c := money.GetCurrency(strings.ToUpper(s)); c != nil && c.Grapheme != "" {
			return c.Grapheme, nil
		}
	}
	return s, nil
}

// FormatAmount renders d with a currency symbol prefix, e.g. "$1,160.50".
// Cents are rounded half away from zero.
func FormatAmount(symbol string, d decimal.Decimal) string {
	cents := d.Round(2).Shift(2)
	if !cents.BigInt().IsInt64() {
		return symbol + d.StringFixed(2)
	}
	return money.NewFormatter(2, ".", ",", symbol, "$1").Format(cents.IntPart())
}
