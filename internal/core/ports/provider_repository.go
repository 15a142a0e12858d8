package ports

import (
	"context"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// ProviderFilter narrows a provider listing. Empty UserID lists everything.
type ProviderFilter struct {
	UserID string
}

// ProviderRepository defines persistence operations for providers.
type ProviderRepository interface {
	Create(ctx context.Context, p *domain.Provider) error
	List(ctx context.Context, filter ProviderFilter) ([]*domain.Provider, error)
	FindByID(ctx context.Context, id string) (*domain.Provider, error)
	// Update applies patch and returns the stored record after the update.
	Update(ctx context.Context, id string, patch domain.ProviderPatch) (*domain.Provider, error)
	Delete(ctx context.Context, id string) error
}
