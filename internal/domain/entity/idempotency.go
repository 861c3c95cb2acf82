package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey remembers the response to a save request so retries of the
// same upload do not store the PDF twice
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_user_key;size:255;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Endpoint     string    `gorm:"size:255;not null"`
	RequestHash  string    `gorm:"size:64"` // sha256 of the uploaded body
	ResponseCode int       `gorm:"not null"`
	ContentType  string    `gorm:"size:100"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Matches reports whether a retry carries the same body as the original request
func (i *IdempotencyKey) Matches(requestHash string) bool {
	return i.RequestHash == "" || i.RequestHash == requestHash
}
