package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratedFile records a PDF saved for a quote or invoice
type GeneratedFile struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentKind string    `gorm:"size:20;not null;index:idx_generated_document" json:"document_kind"`
	DocumentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_generated_document" json:"document_id"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	Path         string    `gorm:"size:500;not null" json:"-"`
	Size         int64     `gorm:"not null" json:"size"`
	SHA256       string    `gorm:"size:64;column:sha256" json:"sha256"`
	Pages        int       `gorm:"default:0" json:"pages"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new record
func (f *GeneratedFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the GeneratedFile model
func (GeneratedFile) TableName() string {
	return "generated_files"
}
