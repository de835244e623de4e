package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"digishop/internal/domain"
	"digishop/internal/pkg/token"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 15

	// how many times the issuer retries after a token collision
	maxTokenAttempts = 5
)

// FileStream is one redeemed download: the byte stream plus the name and
// content metadata it is served under. The caller owns closing Reader.
type FileStream struct {
	Reader        io.ReadCloser
	FileName      string
	ContentType   string
	ContentLength int64
}

type Service struct {
	purchases PurchasedFileRepository
	tokens    DownloadTokenRepository
	products  ProductRepository
	media     MediaRepository
	fetcher   FileFetcher
	baseURL   string
}

func NewService(
	purchases PurchasedFileRepository,
	tokens DownloadTokenRepository,
	products ProductRepository,
	media MediaRepository,
	fetcher FileFetcher,
	baseURL string,
) *Service {
	return &Service{
		purchases: purchases,
		tokens:    tokens,
		products:  products,
		media:     media,
		fetcher:   fetcher,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// ListDownloadableFiles returns one page of the files the customer is
// entitled to download, with order and file details loaded. Fails with
// ErrNotAuthorized when no identity is present.
func (s *Service) ListDownloadableFiles(ctx context.Context, userID int64, limit, page int) ([]domain.PurchasedFile, int64, error) {
	if userID == 0 {
		return nil, 0, ErrNotAuthorized
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return s.purchases.ListByCustomer(ctx, userID, limit, (page-1)*limit)
}

// GenerateDownloadURL issues a single-use token for a digital file the
// customer has purchased and returns the redeem URL. ErrNotAuthorized when
// the customer holds no entitlement to the file.
func (s *Service) GenerateDownloadURL(ctx context.Context, userID, digitalFileID int64) (string, error) {
	if userID == 0 {
		return "", ErrNotAuthorized
	}

	ok, err := s.purchases.ExistsForCustomer(ctx, digitalFileID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotAuthorized
	}

	dt, err := s.createToken(ctx, &userID, digitalFileID)
	if err != nil {
		return "", err
	}
	return s.downloadURL(dt.Token), nil
}

// GenerateFreeDownloadURL issues an anonymous token for a free product's
// digital file. Unlike purchase tokens, free-product tokens are bound to no
// user. ErrNotFound when the product or its file is missing,
// ErrNotAFreeProduct when the product costs money.
func (s *Service) GenerateFreeDownloadURL(ctx context.Context, productID int64) (string, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", ErrNotFound
	}

	if !p.IsFree() {
		return "", ErrNotAFreeProduct
	}

	if p.DigitalFile == nil || p.DigitalFile.ID == 0 {
		return "", ErrNotFound
	}

	dt, err := s.createToken(ctx, nil, p.DigitalFile.ID)
	if err != nil {
		return "", err
	}
	return s.downloadURL(dt.Token), nil
}

// Redeem exchanges a token for its file stream exactly once. Unknown,
// malformed and already-consumed tokens all fail with ErrTokenNotFound;
// a consumed token whose media record is gone fails with ErrNotFound.
func (s *Service) Redeem(ctx context.Context, tok string) (*FileStream, error) {
	dt, err := s.tokens.Consume(ctx, tok)
	if err != nil {
		// every store failure on this path presents as a missing token
		return nil, ErrTokenNotFound
	}
	if dt.File == nil {
		return nil, ErrNotFound
	}

	m, err := s.media.GetByModelID(ctx, dt.File.AttachmentID)
	if err != nil {
		return nil, ErrNotFound
	}

	body, size, contentType, err := s.fetcher.Fetch(ctx, dt.File.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch file bytes: %w", err)
	}

	if m.MimeType != "" {
		contentType = m.MimeType
	}

	return &FileStream{
		Reader:        body,
		FileName:      m.FileName,
		ContentType:   contentType,
		ContentLength: size,
	}, nil
}

func (s *Service) createToken(ctx context.Context, userID *int64, digitalFileID int64) (*domain.DownloadToken, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, err := token.Random()
		if err != nil {
			return nil, err
		}

		dt := &domain.DownloadToken{
			Token:         tok,
			UserID:        userID,
			DigitalFileID: digitalFileID,
		}

		err = s.tokens.Create(ctx, dt)
		if err == nil {
			return dt, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		// collision: regenerate and retry
	}
	return nil, fmt.Errorf("no unique download token after %d attempts", maxTokenAttempts)
}

func (s *Service) downloadURL(tok string) string {
	return fmt.Sprintf("%s/download-url/%s", s.baseURL, tok)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
