package ports

import (
	"context"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// IdentityProvider is the external credential verifier. It owns password
// storage; this service never sees a password hash from it.
//
// VerifyPassword returns domain.ErrInvalidCredentials for an unknown email or
// a wrong password. CreateUser returns domain.ErrUserExists when the email is
// taken.
type IdentityProvider interface {
	CreateUser(ctx context.Context, name, email, password string) (*domain.Identity, error)
	VerifyPassword(ctx context.Context, email, password string) (*domain.Identity, error)
	UpdatePassword(ctx context.Context, uid, password string) error
	UpdateDisplayName(ctx context.Context, uid, name string) error
	DeleteUser(ctx context.Context, uid string) error
}
