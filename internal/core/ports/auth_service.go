package ports

import (
	"context"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// RegisterInput carries the registration fields after transport validation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by a successful register or login. Token is the raw
// bearer token and is only ever observable here.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService covers the account workflows built on the token core.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, rawToken string) error
	ChangePassword(ctx context.Context, userID, password string) error
	UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}
