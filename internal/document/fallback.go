package document

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Defaults applied when optional data is missing
const (
	FallbackDescription = "Prestation de service"
	FallbackServiceName = "Prestation"
	DefaultUnit         = "unité"
	DefaultStatus       = "brouillon"
	GenericServiceName  = "Prestation de services"
)

// ResolveDescription picks the custom description, then the linked service
// description, then the fallback text
func ResolveDescription(line LineInput) string {
	if s := strings.TrimSpace(line.CustomDescription); s != "" {
		return s
	}
	if line.ServiceRef != nil {
		if s := strings.TrimSpace(line.ServiceRef.Description); s != "" {
			return s
		}
	}
	return FallbackDescription
}

// ResolveName returns the linked service name or a generic label
func ResolveName(line LineInput) string {
	if line.ServiceRef != nil {
		if s := strings.TrimSpace(line.ServiceRef.Name); s != "" {
			return s
		}
	}
	return FallbackServiceName
}

// ResolveUnit prefers the line unit, then the service unit
func ResolveUnit(line LineInput) string {
	if s := strings.TrimSpace(line.Unit); s != "" {
		return s
	}
	if line.ServiceRef != nil {
		if s := strings.TrimSpace(line.ServiceRef.Unit); s != "" {
			return s
		}
	}
	return DefaultUnit
}

// ResolveQuantity treats a missing or non-positive quantity as one
func ResolveQuantity(q decimal.Decimal) decimal.Decimal {
	if !q.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return q
}

// ResolveAmount recomputes a missing line total from quantity and unit price
func ResolveAmount(line LineInput, quantity decimal.Decimal) decimal.Decimal {
	if !line.AmountExclTax.IsZero() {
		return line.AmountExclTax
	}
	return quantity.Mul(line.UnitPriceExclTax).Round(2)
}

// ResolveInclTax falls back to HT x (1 + rate/100)
func ResolveInclTax(t Totals) decimal.Decimal {
	if t.AmountInclTax.Valid {
		return t.AmountInclTax.Decimal
	}
	factor := decimal.NewFromInt(1).Add(t.TaxRate.Div(decimal.NewFromInt(100)))
	return t.AmountExclTax.Mul(factor).Round(2)
}

// ResolveLabel returns s, or def when s is blank
func ResolveLabel(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
