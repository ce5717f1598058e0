// Package money formatea importes y cantidades para documentos exportados.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format devuelve el importe con separador de miles y 2 decimales. Ej: 1800 → "1,800.00".
func Format(d decimal.Decimal) string {
	return group(d, 2)
}

// Kg formatea una cantidad en kilogramos con 3 decimales. Ej: 1250.5 → "1,250.500".
func Kg(d decimal.Decimal) string {
	return group(d, 3)
}

func group(d decimal.Decimal, places int32) string {
	s := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// fuera de rango de int64: sin agrupar
		return d.StringFixed(places)
	}
	out := printer.Sprintf("%d", n)
	if frac != "" {
		out += "." + frac
	}
	if d.IsNegative() && !d.Round(places).IsZero() {
		out = "-" + out
	}
	return out
}
