package download

import (
	"context"
	"io"

	"digishop/internal/domain"
)

// PurchasedFileRepository defines the read surface over entitlement rows
type PurchasedFileRepository interface {
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.PurchasedFile, int64, error)
	ExistsForCustomer(ctx context.Context, digitalFileID, customerID int64) (bool, error)
}

// DownloadTokenRepository defines the token store operations
type DownloadTokenRepository interface {
	Create(ctx context.Context, t *domain.DownloadToken) error
	Consume(ctx context.Context, token string) (*domain.DownloadToken, error)
}

// ProductRepository resolves products for free-download eligibility checks
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// MediaRepository resolves stored media records by attachment id
type MediaRepository interface {
	GetByModelID(ctx context.Context, modelID int64) (*domain.Media, error)
}

// FileFetcher opens a stream over the bytes behind a digital file URL.
// The returned size is -1 when unknown.
type FileFetcher interface {
	Fetch(ctx context.Context, url string) (body io.ReadCloser, size int64, contentType string, err error)
}
