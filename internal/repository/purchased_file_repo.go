package repository

import (
	"context"

	"digishop/internal/domain"

	"gorm.io/gorm"
)

// PurchasedFileRepository reads entitlement rows written by order
// fulfillment. Nothing here mutates them.
type PurchasedFileRepository struct {
	db *gorm.DB
}

func NewPurchasedFileRepository(db *gorm.DB) *PurchasedFileRepository {
	return &PurchasedFileRepository{db: db}
}

// ListByCustomer returns one page of the customer's purchased files in
// insertion order, with the originating order and the digital file loaded.
func (r *PurchasedFileRepository) ListByCustomer(
	ctx context.Context,
	customerID int64,
	limit, offset int,
) ([]domain.PurchasedFile, int64, error) {

	var files []domain.PurchasedFile
	var total int64

	q := r.db.WithContext(ctx).
		Model(&domain.PurchasedFile{}).
		Where("customer_id = ?", customerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("Order").
		Preload("File").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&files).Error

	return files, total, err
}

// ExistsForCustomer reports whether the customer holds at least one
// entitlement to the given digital file.
func (r *PurchasedFileRepository) ExistsForCustomer(
	ctx context.Context,
	digitalFileID, customerID int64,
) (bool, error) {

	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.PurchasedFile{}).
		Where("digital_file_id = ? AND customer_id = ?", digitalFileID, customerID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
