package repository

import (
	"context"
	"time"

	"digishop/internal/domain"

	"gorm.io/gorm"
)

type DownloadTokenRepository struct {
	db *gorm.DB
}

func NewDownloadTokenRepository(db *gorm.DB) *DownloadTokenRepository {
	return &DownloadTokenRepository{db: db}
}

type downloadTokenModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Token         string    `gorm:"column:token;size:16;uniqueIndex"`
	UserID        *int64    `gorm:"column:user_id"`
	DigitalFileID int64     `gorm:"column:digital_file_id"`
	Downloaded    bool      `gorm:"column:downloaded"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (downloadTokenModel) TableName() string { return "download_tokens" }

func toDomainToken(m downloadTokenModel) *domain.DownloadToken {
	return &domain.DownloadToken{
		ID:            m.ID,
		Token:         m.Token,
		UserID:        m.UserID,
		DigitalFileID: m.DigitalFileID,
		Downloaded:    m.Downloaded,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// Create inserts a fresh token row. The unique index on token makes a
// collision surface as a duplicate-key error; the caller regenerates and
// retries.
func (r *DownloadTokenRepository) Create(ctx context.Context, t *domain.DownloadToken) error {
	m := downloadTokenModel{
		Token:         t.Token,
		UserID:        t.UserID,
		DigitalFileID: t.DigitalFileID,
		Downloaded:    t.Downloaded,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainToken(m)
	return nil
}

// Consume atomically flips downloaded to true for an unconsumed token and
// returns the token with its digital file loaded. The conditional UPDATE
// acts on exactly one row or zero, so concurrent redeems of the same token
// produce exactly one winner. gorm.ErrRecordNotFound means the token is
// unknown or already consumed.
func (r *DownloadTokenRepository) Consume(ctx context.Context, token string) (*domain.DownloadToken, error) {
	res := r.db.WithContext(ctx).
		Model(&downloadTokenModel{}).
		Where("token = ? AND downloaded = ?", token, false).
		Update("downloaded", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var dt domain.DownloadToken
	err := r.db.WithContext(ctx).
		Preload("File").
		Where("token = ?", token).
		First(&dt).Error
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

// GetByToken returns a token row regardless of its downloaded state.
func (r *DownloadTokenRepository) GetByToken(ctx context.Context, token string) (*domain.DownloadToken, error) {
	var m downloadTokenModel
	tx := r.db.WithContext(ctx).Where("token = ?", token).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainToken(m), nil
}
