package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// QuoteStatus represents the lifecycle of a quote (devis)
type QuoteStatus int

const (
	QuoteStatusDraft    QuoteStatus = 0
	QuoteStatusSent     QuoteStatus = 1
	QuoteStatusAccepted QuoteStatus = 2
	QuoteStatusRefused  QuoteStatus = 3
	QuoteStatusExpired  QuoteStatus = 4
)

var quoteStatusNames = [...]string{"Draft", "Sent", "Accepted", "Refused", "Expired"}

var quoteStatusLabels = [...]string{"Brouillon", "Envoyé", "Accepté", "Refusé", "Expiré"}

func (s QuoteStatus) valid() bool {
	return s >= 0 && int(s) < len(quoteStatusNames)
}

func (s QuoteStatus) String() string {
	if !s.valid() {
		return "Unknown"
	}
	return quoteStatusNames[s]
}

// Label is the French wording printed on the PDF
func (s QuoteStatus) Label() string {
	if !s.valid() {
		return ""
	}
	return quoteStatusLabels[s]
}

// ParseQuoteStatus maps a name back to its status
func ParseQuoteStatus(name string) (QuoteStatus, bool) {
	for i, n := range quoteStatusNames {
		if n == name {
			return QuoteStatus(i), true
		}
	}
	return QuoteStatusDraft, false
}

func (s QuoteStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuoteStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuoteStatus(i)
		return nil
	}
	if parsed, ok := ParseQuoteStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s QuoteStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuoteStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuoteStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuoteStatus(v)
	case int:
		*s = QuoteStatus(v)
	}
	return nil
}
