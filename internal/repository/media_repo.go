package repository

import (
	"context"

	"digishop/internal/domain"

	"gorm.io/gorm"
)

// MediaRepository reads the media-library store that digital files point
// at through their attachment id.
type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) GetByModelID(ctx context.Context, modelID int64) (*domain.Media, error) {
	var m domain.Media
	err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MediaRepository) Create(ctx context.Context, m *domain.Media) error {
	return r.db.WithContext(ctx).Create(m).Error
}
