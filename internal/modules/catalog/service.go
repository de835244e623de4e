package catalog

import (
	"context"

	"digishop/internal/domain"
	"digishop/internal/repository"
)

type Service struct {
	products *repository.ProductRepository
}

func NewService(products *repository.ProductRepository) *Service {
	return &Service{products: products}
}

func (s *Service) ListProducts(ctx context.Context, q ListProductsQuery) ([]domain.Product, int64, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 15
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	return s.products.GetAll(ctx, repository.ProductFilters{
		ShopID:   q.ShopID,
		FreeOnly: q.Free,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
}

func (s *Service) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}
