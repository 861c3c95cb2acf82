package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/shopspring/decimal"
)

// Canonical is a document with every optional field resolved
type Canonical struct {
	Kind       string
	Identifier string
	Status     string
	Object     string
	Issued     time.Time
	Due        time.Time
	Totals     CanonicalTotals
	Client     Client
	Issuer     Issuer
	HasIssuer  bool
	Items      []layout.Item
}

// CanonicalTotals carries the amounts printed in the summary block
type CanonicalTotals struct {
	ExclTax   decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	InclTax   decimal.Decimal
}

// Normalize checks the hard preconditions and resolves every optional field.
// Missing line items are replaced by a single generic service line so the
// pagination engine never sees an empty sequence.
func Normalize(doc *Document) (*Canonical, error) {
	if doc == nil {
		return nil, &PreconditionError{Field: FieldDocument}
	}
	// a missing client wins over every other defect
	if doc.Client == nil {
		return nil, &PreconditionError{Field: FieldClient, Kind: doc.Kind}
	}
	if strings.TrimSpace(doc.Identifier) == "" {
		return nil, &PreconditionError{Field: FieldIdentifier, Kind: doc.Kind}
	}
	if _, ok := layout.ProfileFor(doc.Kind); !ok {
		return nil, &PreconditionError{Field: FieldKind, Kind: doc.Kind}
	}

	inclTax := ResolveInclTax(doc.Totals)
	c := &Canonical{
		Kind:       doc.Kind,
		Identifier: strings.TrimSpace(doc.Identifier),
		Status:     ResolveLabel(doc.Status, DefaultStatus),
		Object:     strings.TrimSpace(doc.Object),
		Issued:     doc.Dates.Issued.Time,
		Due:        doc.Dates.Due.Time,
		Totals: CanonicalTotals{
			ExclTax:   doc.Totals.AmountExclTax,
			TaxRate:   doc.Totals.TaxRate,
			TaxAmount: inclTax.Sub(doc.Totals.AmountExclTax),
			InclTax:   inclTax,
		},
		Client: *doc.Client,
	}
	if doc.Issuer != nil {
		c.Issuer = *doc.Issuer
		c.HasIssuer = true
	}

	if len(doc.LineItems) == 0 {
		c.Items = []layout.Item{genericServiceItem(doc.Totals.AmountExclTax)}
		return c, nil
	}

	c.Items = make([]layout.Item, len(doc.LineItems))
	seen := make(map[string]bool, len(doc.LineItems))
	for i, line := range doc.LineItems {
		key := lineKey(line.ID, i)
		if seen[key] {
			key = positionKey(i)
		}
		seen[key] = true

		quantity := ResolveQuantity(line.Quantity)
		c.Items[i] = layout.Item{
			Key:         key,
			Name:        ResolveName(line),
			Description: ResolveDescription(line),
			Quantity:    quantity,
			Unit:        ResolveUnit(line),
			UnitPrice:   line.UnitPriceExclTax,
			Amount:      ResolveAmount(line, quantity),
		}
	}
	return c, nil
}

func genericServiceItem(amount decimal.Decimal) layout.Item {
	return layout.Item{
		Key:         positionKey(0),
		Name:        GenericServiceName,
		Description: FallbackDescription,
		Quantity:    decimal.NewFromInt(1),
		Unit:        DefaultUnit,
		UnitPrice:   amount,
		Amount:      amount,
		Synthetic:   true,
	}
}

// lineKey uses the line id when there is one, its position otherwise
func lineKey(raw []byte, index int) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return positionKey(index)
	}
	id := strings.Trim(string(raw), `"`)
	if id == "" {
		return positionKey(index)
	}
	return "id:" + id
}

func positionKey(index int) string {
	return fmt.Sprintf("pos:%d", index)
}
