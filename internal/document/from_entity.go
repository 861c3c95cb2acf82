package document

import (
	"encoding/json"
	"time"

	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/shopspring/decimal"
)

// FromQuote maps a persisted quote to the render input. The quote must be
// loaded with its client, issuer and lines.
func FromQuote(q *entity.Quote) *Document {
	if q == nil {
		return nil
	}
	doc := &Document{
		Kind:       layout.KindQuote,
		Identifier: q.Number,
		Status:     q.Status.Label(),
		Object:     q.Object,
		Dates:      Dates{Issued: NewDate(q.IssueDate), Due: optionalDate(q.ValidUntil)},
		Totals:     totals(q.AmountExclTax, q.TaxRate, q.AmountInclTax),
		Client:     fromClient(q.Client),
		Issuer:     fromCompany(q.Issuer),
	}
	for _, l := range q.Lines {
		doc.LineItems = append(doc.LineItems, fromLine(l.ID.String(), l.Quantity, l.Unit, l.UnitPrice, l.Amount, l.Description, l.Service))
	}
	return doc
}

// FromInvoice maps a persisted invoice to the render input
func FromInvoice(inv *entity.Invoice) *Document {
	if inv == nil {
		return nil
	}
	doc := &Document{
		Kind:       layout.KindInvoice,
		Identifier: inv.Number,
		Status:     inv.Status.Label(),
		Object:     inv.Object,
		Dates:      Dates{Issued: NewDate(inv.IssueDate), Due: optionalDate(inv.DueDate)},
		Totals:     totals(inv.AmountExclTax, inv.TaxRate, inv.AmountInclTax),
		Client:     fromClient(inv.Client),
		Issuer:     fromCompany(inv.Issuer),
	}
	for _, l := range inv.Lines {
		doc.LineItems = append(doc.LineItems, fromLine(l.ID.String(), l.Quantity, l.Unit, l.UnitPrice, l.Amount, l.Description, l.Service))
	}
	return doc
}

func totals(exclTax, rate, inclTax decimal.Decimal) Totals {
	t := Totals{AmountExclTax: exclTax, TaxRate: rate}
	// a zero TTC on a non-zero HT means it was never computed
	if !inclTax.IsZero() || exclTax.IsZero() {
		t.AmountInclTax = decimal.NewNullDecimal(inclTax)
	}
	return t
}

func fromLine(id string, qty decimal.Decimal, unit string, price, amount decimal.Decimal, desc *string, svc *entity.Service) LineInput {
	rawID, _ := json.Marshal(id)
	line := LineInput{
		ID:               rawID,
		Quantity:         qty,
		Unit:             unit,
		UnitPriceExclTax: price,
		AmountExclTax:    amount,
	}
	if desc != nil {
		line.CustomDescription = *desc
	}
	if svc != nil {
		line.ServiceRef = &ServiceRef{Name: svc.Name, Description: svc.Description, Unit: svc.Unit}
	}
	return line
}

func fromClient(c *entity.Client) *Client {
	if c == nil {
		return nil
	}
	out := &Client{
		Name:    c.Name,
		Email:   str(c.Email),
		Phone:   str(c.Phone),
		Address: str(c.Address),
	}
	if c.Company != nil {
		out.Company = &ClientCompany{
			Name:    c.Company.Name,
			Siret:   str(c.Company.Siret),
			Address: str(c.Company.Address),
		}
	}
	return out
}

func fromCompany(c *entity.Company) *Issuer {
	if c == nil {
		return nil
	}
	out := &Issuer{
		Name:      c.Name,
		Email:     str(c.Email),
		Phone:     str(c.Phone),
		Address:   str(c.Address),
		Siret:     str(c.Siret),
		VATNumber: str(c.VATNumber),
		LogoURL:   str(c.LogoURL),
	}
	if c.HasBanking() {
		out.Banking = &Banking{
			BankName:      str(c.BankName),
			IBAN:          str(c.IBAN),
			BIC:           str(c.BIC),
			AccountHolder: str(c.AccountHolder),
		}
	}
	return out
}

func optionalDate(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return NewDate(*t)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
