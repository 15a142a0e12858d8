package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

// fallbackName is used when an account exists at the identity provider but
// has neither a mirror record nor a display name.
const fallbackName = "User"

// AuthService implements registration, login and the account workflows.
type AuthService struct {
	identity ports.IdentityProvider
	users    ports.UserRepository
	tokens   ports.TokenService
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(identity ports.IdentityProvider, users ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		identity: identity,
		users:    users,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// Register creates the account at the identity provider, stores the profile
// mirror and issues a first token. Nothing is returned unless every step
// succeeded.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.DefaultRole
	}

	ident, err := s.identity.CreateUser(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:        ident.UID,
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to store user profile")
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user registered")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials and issues a new token. Existing tokens of
// the user stay valid.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	ident, err := s.identity.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info().Msg("login rejected: invalid credentials")
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, ident.UID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user = s.backfillUser(ctx, ident, email)
	case err != nil:
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Logout revokes the token the request was authenticated with.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	return s.tokens.RevokeByToken(ctx, rawToken)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, password string) error {
	if err := s.identity.UpdatePassword(ctx, userID, password); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// UpdateProfile renames the user at the identity provider and in the mirror.
// The mirror is looked up first so a missing profile fails before anything is
// written.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.identity.UpdateDisplayName(ctx, userID, name); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}

// DeleteAccount revokes every token, then removes the identity and the
// mirror. The steps are not transactional; the first failure is returned and
// later steps are skipped.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.identity.DeleteUser(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("tokens revoked but identity deletion failed")
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("identity deleted but profile deletion failed")
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

// backfillUser stores a mirror for an identity that has none. A failed write
// does not fail the login; the next login tries again.
func (s *AuthService) backfillUser(ctx context.Context, ident *domain.Identity, email string) *domain.User {
	user := fallbackUser(ident, email)
	now := s.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, domain.ErrUserExists) {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to backfill user profile")
	}
	return user
}

func fallbackUser(ident *domain.Identity, email string) *domain.User {
	name := ident.DisplayName
	if name == "" {
		name = fallbackName
	}
	if ident.Email != "" {
		email = ident.Email
	}
	return &domain.User{
		ID:    ident.UID,
		Name:  name,
		Email: email,
		Role:  domain.DefaultRole,
	}
}
