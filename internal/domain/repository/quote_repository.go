package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	"github.com/sangkips/devis-api/internal/domain/enum"
	"github.com/sangkips/devis-api/pkg/pagination"
)

// QuoteRepository defines the interface for quote data operations
type QuoteRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quote, error)
	GetByNumber(ctx context.Context, number string) (*entity.Quote, error)
	// GetForRender loads a quote with client, issuer and ordered lines with their services
	GetForRender(ctx context.Context, id uuid.UUID) (*entity.Quote, error)
	List(ctx context.Context, userID uuid.UUID, params *QuoteFilterParams) ([]entity.Quote, int64, error)
}

// QuoteFilterParams contains filtering parameters for quote queries
type QuoteFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuoteStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}
