// Package document normalizes quotes and invoices into the canonical shape the
// pagination engine and the PDF renderer work from.
package document

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document is the input contract shared by quotes and invoices
type Document struct {
	Kind       string      `json:"kind"`
	Identifier string      `json:"identifier"`
	Status     string      `json:"status"`
	Object     string      `json:"object"`
	Dates      Dates       `json:"dates"`
	Totals     Totals      `json:"totals"`
	Client     *Client     `json:"client"`
	Issuer     *Issuer     `json:"issuer,omitempty"`
	LineItems  []LineInput `json:"lineItems,omitempty"`
}

// Dates holds the issue and due dates
type Dates struct {
	Issued Date `json:"issued"`
	Due    Date `json:"due"`
}

// Totals are the document-level amounts
type Totals struct {
	AmountExclTax decimal.Decimal     `json:"amountExclTax"`
	TaxRate       decimal.Decimal     `json:"taxRate"`
	AmountInclTax decimal.NullDecimal `json:"amountInclTax"`
}

// Client is the customer the document is addressed to
type Client struct {
	Name    string         `json:"name"`
	Email   string         `json:"email,omitempty"`
	Phone   string         `json:"phone,omitempty"`
	Address string         `json:"address,omitempty"`
	Company *ClientCompany `json:"company,omitempty"`
}

// ClientCompany is the optional legal entity behind a client
type ClientCompany struct {
	Name    string `json:"name"`
	Siret   string `json:"siret,omitempty"`
	Address string `json:"address,omitempty"`
}

// Issuer is the company issuing the document
type Issuer struct {
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Address   string   `json:"address,omitempty"`
	Siret     string   `json:"siret,omitempty"`
	VATNumber string   `json:"vatNumber,omitempty"`
	LogoURL   string   `json:"logoUrl,omitempty"`
	Banking   *Banking `json:"banking,omitempty"`
}

// Banking holds the payment details printed on quotes
type Banking struct {
	BankName      string `json:"bankName,omitempty"`
	IBAN          string `json:"iban,omitempty"`
	BIC           string `json:"bic,omitempty"`
	AccountHolder string `json:"accountHolder,omitempty"`
}

// LineInput is one line item as received
type LineInput struct {
	ID                json.RawMessage `json:"id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit,omitempty"`
	UnitPriceExclTax  decimal.Decimal `json:"unitPriceExclTax"`
	AmountExclTax     decimal.Decimal `json:"amountExclTax"`
	CustomDescription string          `json:"customDescription,omitempty"`
	ServiceRef        *ServiceRef     `json:"serviceRef,omitempty"`
}

// ServiceRef links a line to a reusable service definition
type ServiceRef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
}

// Date accepts either "2006-01-02" or RFC 3339 in JSON
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate wraps a time value
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value leaves the date unset
		*d = Date{}
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	// unparseable dates render as blank rather than failing the document
	t, _ := time.Parse(time.RFC3339, s)
	d.Time = t
	return nil
}
