package auth

import (
	"context"

	"digishop/internal/domain"
)

// UserRepositoryInterface defines the user store operations auth needs
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
