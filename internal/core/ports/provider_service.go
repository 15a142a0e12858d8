package ports

import (
	"context"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// ProviderInput carries a validated provider for creation.
type ProviderInput struct {
	CompanyName string
	ContactName string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	State       string
	PostalCode  string
	Country     string
	// UserID is optional; the caller's id is used when empty.
	UserID string
}

// ListProvidersInput selects which providers the caller sees.
type ListProvidersInput struct {
	CallerID string
	// All disables the default scoping to the caller's own providers.
	All bool
}

// ProviderService defines use-case operations for providers.
type ProviderService interface {
	Create(ctx context.Context, callerID string, input ProviderInput) (*domain.Provider, error)
	List(ctx context.Context, input ListProvidersInput) ([]*domain.Provider, error)
	Get(ctx context.Context, id string) (*domain.Provider, error)
	Update(ctx context.Context, id string, patch domain.ProviderPatch) (*domain.Provider, error)
	Delete(ctx context.Context, id string) error
}
