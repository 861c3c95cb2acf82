package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote represents a priced proposal (devis) sent to a client
type Quote struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID      *uuid.UUID       `gorm:"type:uuid;index" json:"client_id,omitempty"`
	IssuerID      *uuid.UUID       `gorm:"type:uuid;index" json:"issuer_id,omitempty"`
	Number        string           `gorm:"size:100;unique;not null" json:"number"`
	Object        string           `gorm:"size:255" json:"object"`
	Status        enum.QuoteStatus `gorm:"default:0" json:"status"`
	IssueDate     time.Time        `gorm:"type:date;not null" json:"issue_date"`
	ValidUntil    *time.Time       `gorm:"type:date" json:"valid_until,omitempty"`
	TaxRate       decimal.Decimal  `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	AmountExclTax decimal.Decimal  `gorm:"type:decimal(15,2);default:0" json:"amount_excl_tax"`
	AmountInclTax decimal.Decimal  `gorm:"type:decimal(15,2);default:0" json:"amount_incl_tax"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Client *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Issuer *Company    `gorm:"foreignKey:IssuerID" json:"issuer,omitempty"`
	Lines  []QuoteLine `gorm:"foreignKey:QuoteID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quote
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// QuoteLine represents a line item in a quote
type QuoteLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"quote_id"`
	ServiceID   *uuid.UUID      `gorm:"type:uuid;index" json:"service_id,omitempty"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	Unit        string          `gorm:"size:50" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quote line
func (l *QuoteLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuoteLine model
func (QuoteLine) TableName() string {
	return "quote_lines"
}
