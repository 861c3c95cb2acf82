package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a legal entity: either the issuer of documents or a client's employer
type Company struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Siret         *string        `gorm:"size:20" json:"siret,omitempty"`
	VATNumber     *string        `gorm:"size:30;column:vat_number" json:"vat_number,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Phone         *string        `gorm:"size:50" json:"phone,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	LogoURL       *string        `gorm:"size:255" json:"logo_url,omitempty"`
	BankName      *string        `gorm:"size:255" json:"bank_name,omitempty"`
	IBAN          *string        `gorm:"size:50;column:iban" json:"iban,omitempty"`
	BIC           *string        `gorm:"size:20;column:bic" json:"bic,omitempty"`
	AccountHolder *string        `gorm:"size:255" json:"account_holder,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}

// HasBanking reports whether any payment detail is filled in
func (c *Company) HasBanking() bool {
	return deref(c.BankName) != "" || deref(c.IBAN) != "" || deref(c.BIC) != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
