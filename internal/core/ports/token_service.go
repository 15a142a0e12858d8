package ports

import "context"

// TokenService issues, verifies and revokes opaque bearer tokens.
type TokenService interface {
	Issue(ctx context.Context, userID string) (string, error)
	// Verify returns domain.ErrUnauthenticated for unknown tokens.
	Verify(ctx context.Context, rawToken string) (string, error)
	RevokeByToken(ctx context.Context, rawToken string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
