package currency

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency is one of the fixed set of display currencies.
type Currency string

const (
	XOF Currency = "XOF"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// rateXOF is how many XOF one unit of the currency is worth.
// Prices are stored in XOF; conversion is display-only.
var rateXOF = map[Currency]int64{
	XOF: 1,
	EUR: 656,
	USD: 600,
}

var symbols = map[Currency]string{
	XOF: "F CFA",
	EUR: "€",
	USD: "$",
}

// Parse normalizes and validates a currency code. An empty string falls
// back to XOF, the base currency.
func Parse(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return XOF, nil
	}
	c := Currency(code)
	if _, ok := rateXOF[c]; !ok {
		return "", fmt.Errorf("unsupported currency: %s", code)
	}
	return c, nil
}

// Rate returns how many XOF one unit of c is worth.
func (c Currency) Rate() int64 {
	return rateXOF[c]
}

// Symbol returns the display symbol for c.
func (c Currency) Symbol() string {
	return symbols[c]
}

// DisplayPreferences carries the customer's selected display currency and
// language as an explicit value, passed into formatting calls instead of
// read from ambient state.
type DisplayPreferences struct {
	Currency Currency
	Language string
}

// DefaultPreferences is what a first-time visitor sees.
func DefaultPreferences() DisplayPreferences {
	return DisplayPreferences{Currency: XOF, Language: "fr"}
}

// Convert converts a base-currency amount into target units, rounding to
// the nearest whole unit (half-up). The round trip back to XOF is lossy by
// design; the stored amount is always the XOF one.
func Convert(amountXOF int64, target Currency) int64 {
	rate := target.Rate()
	return (amountXOF + rate/2) / rate
}

// Format converts amountXOF into the preferred currency and renders it
// with that currency's display convention: XOF and EUR group thousands
// with spaces and trail the symbol, USD leads with the symbol and groups
// with commas.
func Format(amountXOF int64, prefs DisplayPreferences) string {
	converted := Convert(amountXOF, prefs.Currency)
	switch prefs.Currency {
	case USD:
		return prefs.Currency.Symbol() + groupDigits(converted, ',')
	default:
		return groupDigits(converted, ' ') + " " + prefs.Currency.Symbol()
	}
}

// groupDigits renders n with a separator every three digits.
func groupDigits(n int64, sep rune) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
