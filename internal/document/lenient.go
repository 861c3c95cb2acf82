package document

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// The document contract is decoded field by field. A value of the wrong type
// leaves its field at the zero value so the fallback rules apply, and only a
// body that is not a JSON object is rejected.

var errNotObject = errors.New("document: expected a JSON object")

type fields map[string]json.RawMessage

func objectFields(data []byte) (fields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var f fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// decode assigns the field to dst only when it decodes cleanly
func decode[T any](f fields, key string, dst *T) {
	raw, ok := f[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// text returns the field when it is a JSON string, "" otherwise
func (f fields) text(key string) string {
	var s string
	decode(f, key, &s)
	return s
}

// reference also accepts a bare number, as identifiers often arrive numeric
func (f fields) reference(key string) string {
	if s := f.text(key); s != "" {
		return s
	}
	var n json.Number
	decode(f, key, &n)
	return n.String()
}

// amount accepts a number or a numeric string. Anything else yields zero.
func (f fields) amount(key string) decimal.Decimal {
	var d decimal.Decimal
	decode(f, key, &d)
	return d
}

func (d *Document) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*d = Document{
		Kind:       f.text("kind"),
		Identifier: f.reference("identifier"),
		Status:     f.text("status"),
		Object:     f.text("object"),
	}
	decode(f, "dates", &d.Dates)
	decode(f, "totals", &d.Totals)
	decode(f, "client", &d.Client)
	decode(f, "issuer", &d.Issuer)

	var lines []json.RawMessage
	decode(f, "lineItems", &lines)
	if len(lines) > 0 {
		d.LineItems = make([]LineInput, len(lines))
		for i, raw := range lines {
			// a line that is not an object still counts and renders from fallbacks
			_ = json.Unmarshal(raw, &d.LineItems[i])
		}
	}
	return nil
}

func (d *Dates) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*d = Dates{}
	decode(f, "issued", &d.Issued)
	decode(f, "due", &d.Due)
	return nil
}

func (t *Totals) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*t = Totals{
		AmountExclTax: f.amount("amountExclTax"),
		TaxRate:       f.amount("taxRate"),
	}
	decode(f, "amountInclTax", &t.AmountInclTax)
	return nil
}

func (c *Client) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*c = Client{
		Name:    f.text("name"),
		Email:   f.text("email"),
		Phone:   f.text("phone"),
		Address: f.text("address"),
	}
	decode(f, "company", &c.Company)
	return nil
}

func (c *ClientCompany) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*c = ClientCompany{
		Name:    f.text("name"),
		Siret:   f.text("siret"),
		Address: f.text("address"),
	}
	return nil
}

func (i *Issuer) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*i = Issuer{
		Name:      f.text("name"),
		Email:     f.text("email"),
		Phone:     f.text("phone"),
		Address:   f.text("address"),
		Siret:     f.text("siret"),
		VATNumber: f.text("vatNumber"),
		LogoURL:   f.text("logoUrl"),
	}
	decode(f, "banking", &i.Banking)
	return nil
}

func (b *Banking) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*b = Banking{
		BankName:      f.text("bankName"),
		IBAN:          f.text("iban"),
		BIC:           f.text("bic"),
		AccountHolder: f.text("accountHolder"),
	}
	return nil
}

func (l *LineInput) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*l = LineInput{
		Quantity:          f.amount("quantity"),
		Unit:              f.text("unit"),
		UnitPriceExclTax:  f.amount("unitPriceExclTax"),
		AmountExclTax:     f.amount("amountExclTax"),
		CustomDescription: f.text("customDescription"),
	}
	if raw, ok := f["id"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		l.ID = append(json.RawMessage(nil), raw...)
	}
	decode(f, "serviceRef", &l.ServiceRef)
	return nil
}

func (s *ServiceRef) UnmarshalJSON(data []byte) error {
	f, err := objectFields(data)
	if err != nil {
		return err
	}
	*s = ServiceRef{
		Name:        f.text("name"),
		Description: f.text("description"),
		Unit:        f.text("unit"),
	}
	return nil
}
