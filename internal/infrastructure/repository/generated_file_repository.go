package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/devis-api/internal/domain/entity"
	domainRepo "github.com/sangkips/devis-api/internal/domain/repository"
	"gorm.io/gorm"
)

type generatedFileRepository struct {
	db *gorm.DB
}

// NewGeneratedFileRepository creates a new generated file repository
func NewGeneratedFileRepository(db *gorm.DB) domainRepo.GeneratedFileRepository {
	return &generatedFileRepository{db: db}
}

func (r *generatedFileRepository) Create(ctx context.Context, file *entity.GeneratedFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *generatedFileRepository) ListByDocument(ctx context.Context, kind string, documentID uuid.UUID) ([]entity.GeneratedFile, error) {
	var files []entity.GeneratedFile
	err := r.db.WithContext(ctx).
		Where("document_kind = ? AND document_id = ?", kind, documentID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *generatedFileRepository) GetLatest(ctx context.Context, kind string, documentID uuid.UUID) (*entity.GeneratedFile, error) {
	var file entity.GeneratedFile
	err := r.db.WithContext(ctx).
		Where("document_kind = ? AND document_id = ?", kind, documentID).
		Order("created_at DESC").
		First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &file, err
}
