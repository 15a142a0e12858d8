package ports

import (
	"context"
	"time"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// TokenRepository persists hashed access tokens. Implementations never see
// the raw token value.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.AccessToken) error
	// FindByHash returns domain.ErrTokenNotFound when no record matches.
	FindByHash(ctx context.Context, hash string) (*domain.AccessToken, error)
	// DeleteByHash reports whether a record was removed. A missing record is
	// not an error.
	DeleteByHash(ctx context.Context, hash string) (bool, error)
	// HashesByUser lists the stored hashes of userID.
	HashesByUser(ctx context.Context, userID string) ([]string, error)
	// DeleteByUser removes every token of userID, including any issued after
	// a preceding HashesByUser, and reports how many were removed.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	Touch(ctx context.Context, hash string, at time.Time) error
}
