package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the lifecycle of an invoice (facture)
type InvoiceStatus int

const (
	InvoiceStatusDraft     InvoiceStatus = 0
	InvoiceStatusSent      InvoiceStatus = 1
	InvoiceStatusPaid      InvoiceStatus = 2
	InvoiceStatusOverdue   InvoiceStatus = 3
	InvoiceStatusCancelled InvoiceStatus = 4
)

var invoiceStatusNames = [...]string{"Draft", "Sent", "Paid", "Overdue", "Cancelled"}

var invoiceStatusLabels = [...]string{"Brouillon", "Envoyée", "Payée", "En retard", "Annulée"}

func (s InvoiceStatus) valid() bool {
	return s >= 0 && int(s) < len(invoiceStatusNames)
}

func (s InvoiceStatus) String() string {
	if !s.valid() {
		return "Unknown"
	}
	return invoiceStatusNames[s]
}

// Label is the French wording printed on the PDF
func (s InvoiceStatus) Label() string {
	if !s.valid() {
		return ""
	}
	return invoiceStatusLabels[s]
}

// ParseInvoiceStatus maps a name back to its status
func ParseInvoiceStatus(name string) (InvoiceStatus, bool) {
	for i, n := range invoiceStatusNames {
		if n == name {
			return InvoiceStatus(i), true
		}
	}
	return InvoiceStatusDraft, false
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	if parsed, ok := ParseInvoiceStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
