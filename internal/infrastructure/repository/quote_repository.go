package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	domainRepo "github.com/sangkips/devis-api/internal/domain/repository"
	"gorm.io/gorm"
)

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) domainRepo.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Client").
		First(&quote, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) GetByNumber(ctx context.Context, number string) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).First(&quote, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) GetForRender(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Client.Company").
		Preload("Issuer").
		Preload("Lines", orderedLines).
		First(&quote, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.QuoteFilterParams) ([]entity.Quote, int64, error) {
	var quotes []entity.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quote{}).
		Scopes(OwnedBy(userID), SearchDocuments(params.Search))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Scopes(SortDocuments(params.SortBy, params.SortOrder), Paginate(params.Pagination)).
		Preload("Client").
		Find(&quotes).Error

	return quotes, total, err
}
