package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
)

// GeneratedFileRepository stores metadata of saved PDFs
type GeneratedFileRepository interface {
	Create(ctx context.Context, file *entity.GeneratedFile) error
	ListByDocument(ctx context.Context, kind string, documentID uuid.UUID) ([]entity.GeneratedFile, error)
	GetLatest(ctx context.Context, kind string, documentID uuid.UUID) (*entity.GeneratedFile, error)
}
