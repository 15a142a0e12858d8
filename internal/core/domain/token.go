package domain

import "time"

// AccessToken is the persisted form of an issued bearer token. Only the
// SHA-256 hash of the raw value is ever stored.
type AccessToken struct {
	TokenHash  string
	UserID     string
	CreatedAt  time.Time
	LastUsedAt time.Time
}
