package repository

import (
	"context"

	"digishop/internal/domain"

	"gorm.io/gorm"
)

type ProductFilters struct {
	ShopID   int64
	FreeOnly bool
	Limit    int
	Offset   int
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns products with optional filters
func (r *ProductRepository) GetAll(
	ctx context.Context,
	f ProductFilters,
) ([]domain.Product, int64, error) {

	var products []domain.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Product{})

	if f.ShopID > 0 {
		q = q.Where("shop_id = ?", f.ShopID)
	}

	if f.FreeOnly {
		q = q.Where("price = 0 OR sale_price = 0")
	}

	q.Count(&total)

	err := q.
		Preload("Shop").
		Preload("DigitalFile").
		Order("id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&products).Error

	return products, total, err
}

// GetByID fetches a product with its digital file loaded
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product

	err := r.db.WithContext(ctx).
		Preload("DigitalFile").
		Preload("Shop").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// GetBySlug fetches a product by its slug
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product

	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Preload("DigitalFile").
		Preload("Shop").
		First(&product).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}
