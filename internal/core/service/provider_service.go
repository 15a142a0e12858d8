package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

type ProviderService struct {
	repo   ports.ProviderRepository
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewProviderService(repo ports.ProviderRepository, logger zerolog.Logger) *ProviderService {
	return &ProviderService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create stores a new provider. When the input names no owner, the provider
// is attributed to the caller.
func (s *ProviderService) Create(ctx context.Context, callerID string, in ports.ProviderInput) (*domain.Provider, error) {
	owner := in.UserID
	if owner == "" {
		owner = callerID
	}

	now := s.now().UTC()
	p := &domain.Provider{
		ID:          s.newID(),
		CompanyName: in.CompanyName,
		ContactName: in.ContactName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		PostalCode:  in.PostalCode,
		Country:     in.Country,
		UserID:      owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create provider")
		return nil, err
	}

	s.logger.Info().Str("provider_id", p.ID).Str("user_id", owner).Msg("provider created")
	return p, nil
}

// List returns the caller's providers, or every provider when input.All is set.
func (s *ProviderService) List(ctx context.Context, in ports.ListProvidersInput) ([]*domain.Provider, error) {
	filter := ports.ProviderFilter{UserID: in.CallerID}
	if in.All {
		filter.UserID = ""
	}

	providers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if providers == nil {
		providers = []*domain.Provider{}
	}

	s.logger.Debug().Int("count", len(providers)).Bool("all", in.All).Msg("providers listed")
	return providers, nil
}

func (s *ProviderService) Get(ctx context.Context, id string) (*domain.Provider, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. An empty patch still refreshes updatedAt.
func (s *ProviderService) Update(ctx context.Context, id string, patch domain.ProviderPatch) (*domain.Provider, error) {
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("provider_id", id).Msg("provider updated")
	return p, nil
}

func (s *ProviderService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("provider_id", id).Msg("provider deleted")
	return nil
}
