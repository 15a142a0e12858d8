package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

// tokenBytes of entropy encode to 64 base64url characters.
const tokenBytes = 48

// TokenCache abstracts the optional verification cache (Redis).
//
// Get reports found=true with an empty userID for a revoked hash. Remember
// must not overwrite an existing entry, and Forget must overwrite
// unconditionally, so a revoke always wins over a concurrent verify.
type TokenCache interface {
	Get(ctx context.Context, hash string) (userID string, found bool, err error)
	Remember(ctx context.Context, hash, userID string) error
	Forget(ctx context.Context, hashes ...string) error
}

// TokenToucher records token usage asynchronously. Touch must not block.
type TokenToucher interface {
	Touch(hash string)
}

// TokenService implements ports.TokenService on top of a TokenRepository.
// cache and toucher are optional.
type TokenService struct {
	repo    ports.TokenRepository
	cache   TokenCache
	toucher TokenToucher
	log     zerolog.Logger
	now     func() time.Time
}

func NewTokenService(repo ports.TokenRepository, cache TokenCache, toucher TokenToucher, log zerolog.Logger) *TokenService {
	return &TokenService{
		repo:    repo,
		cache:   cache,
		toucher: toucher,
		log:     log,
		now:     time.Now,
	}
}

// Issue mints a new token for userID, stores its hash and returns the raw
// value. Other tokens of the same user are left alone.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.NewValidationError("user_id", "user id is required")
	}

	raw, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	now := s.now().UTC()
	record := &domain.AccessToken{
		TokenHash:  hashToken(raw),
		UserID:     userID,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to persist access token")
		return "", err
	}

	s.log.Debug().Str("user_id", userID).Msg("access token issued")
	return raw, nil
}

// Verify resolves rawToken to its user id. Unknown, revoked and empty tokens
// all yield domain.ErrUnauthenticated.
func (s *TokenService) Verify(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", domain.ErrUnauthenticated
	}
	hash := hashToken(rawToken)

	if s.cache != nil {
		userID, found, err := s.cache.Get(ctx, hash)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("token cache lookup failed, falling back to store")
		case found && userID == "":
			return "", domain.ErrUnauthenticated
		case found:
			s.touch(hash)
			return userID, nil
		}
	}

	record, err := s.repo.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return "", domain.ErrUnauthenticated
		}
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Remember(ctx, hash, record.UserID); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache verified token")
		}
	}
	s.touch(hash)
	return record.UserID, nil
}

// RevokeByToken deletes the record of rawToken. Revoking an unknown token is
// a no-op.
//
// The cache entry is tombstoned before the record is deleted. If the cache
// cannot be written the revoke fails and nothing is deleted, so a retry is
// safe and a cached entry never outlives a successful revoke.
func (s *TokenService) RevokeByToken(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hash := hashToken(rawToken)

	if err := s.forget(ctx, hash); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteByHash(ctx, hash)
	if err != nil {
		return err
	}

	s.log.Debug().Bool("deleted", deleted).Msg("access token revoked")
	return nil
}

// RevokeAllForUser deletes every token of userID, with the same cache-first
// ordering as RevokeByToken.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.NewValidationError("user_id", "user id is required")
	}

	if s.cache != nil {
		hashes, err := s.repo.HashesByUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.forget(ctx, hashes...); err != nil {
			return err
		}
	}

	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Int64("revoked", n).Msg("all access tokens revoked")
	return nil
}

func (s *TokenService) forget(ctx context.Context, hashes ...string) error {
	if s.cache == nil || len(hashes) == 0 {
		return nil
	}
	if err := s.cache.Forget(ctx, hashes...); err != nil {
		s.log.Error().Err(err).Int("count", len(hashes)).Msg("failed to invalidate cached tokens")
		return domain.StorageError("invalidate cached tokens", err)
	}
	return nil
}

func (s *TokenService) touch(hash string) {
	if s.toucher != nil {
		s.toucher.Touch(hash)
	}
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken returns the lowercase hex SHA-256 of raw, the only form that is
// ever persisted.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
