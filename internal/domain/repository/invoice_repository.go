package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/internal/domain/enum"
	"github.com/sangkips/devis-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	// GetForRender loads an invoice with client, issuer and ordered lines with their services
	GetForRender(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}
