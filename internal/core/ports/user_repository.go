package ports

import (
	"context"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// UserRepository stores the profile mirror of identity-provider accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateName(ctx context.Context, id, name string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
