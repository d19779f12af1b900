package layout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/posline/escpos-engine/pkg/receipt"
)

const defaultDecimals = 2

// FormatCurrency renders an amount using the given format. Zero valued
// fields fall back to the documented defaults: no symbol, 2 decimals,
// space thousands separator, "." decimal separator, symbol after.
//
// The sign is applied before symbol placement, so a negative amount with
// a "before" symbol renders as "$-99.99", never "-$99.99".
func FormatCurrency(amount float64, format receipt.CurrencyFormat) string {
	decimals := format.Decimals
	if decimals == 0 {
		decimals = defaultDecimals
	}
	thousandsSep := format.ThousandsSep
	if thousandsSep == "" {
		thousandsSep = " "
	}
	decimalSep := format.DecimalSep
	if decimalSep == "" {
		decimalSep = "."
	}

	d := decimal.NewFromFloat(amount)
	fixed := d.Abs().StringFixed(int32(decimals))

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart = fixed[:idx]
		fracPart = fixed[idx+1:]
	}

	formatted := groupThousands(intPart, thousandsSep)
	if fracPart != "" {
		formatted += decimalSep + fracPart
	}

	if d.IsNegative() {
		formatted = "-" + formatted
	}

	if format.Symbol != "" {
		if format.Position == "before" {
			formatted = format.Symbol + formatted
		} else {
			formatted = formatted + " " + format.Symbol
		}
	}

	return formatted
}

// groupThousands inserts sep every three digits, counting from the right
func groupThousands(digits string, sep string) string {
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
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
