package pdf

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// fpdf core fonts are cp1252: the locale's narrow spaces have no glyph there
var spaceFixer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// formatter renders amounts, rates and dates for one locale
type formatter struct {
	printer  *message.Printer
	currency string
}

func newFormatter(tag language.Tag, currency string) formatter {
	return formatter{printer: message.NewPrinter(tag), currency: currency}
}

func (f formatter) money(d decimal.Decimal) string {
	s := f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
	return spaceFixer.Replace(s) + " " + f.currency
}

func (f formatter) quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return f.printer.Sprint(number.Decimal(d.IntPart()))
	}
	return spaceFixer.Replace(f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3))))
}

func (f formatter) percent(d decimal.Decimal) string {
	return spaceFixer.Replace(f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))) + " %"
}

func (f formatter) date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
