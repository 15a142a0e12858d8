package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies a failure for the transport layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidCredentials
	KindNotFound
	KindConflict
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

var (
	// ErrUnauthenticated is returned for a missing or unresolvable bearer token.
	// It deliberately carries no detail about the cause.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProviderNotFound   = errors.New("provider not found")
	ErrTokenNotFound      = errors.New("token not found")
)

// Upstream sources.
const (
	SourceStorage  = "storage"
	SourceIdentity = "identity"
)

// UpstreamError wraps a failure of the storage backend or the identity
// provider.
type UpstreamError struct {
	Source string
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure.
func StorageError(op string, err error) error {
	return &UpstreamError{Source: SourceStorage, Op: op, Err: err}
}

// IdentityError wraps an identity-provider failure.
func IdentityError(op string, err error) error {
	return &UpstreamError{Source: SourceIdentity, Op: op, Err: err}
}

// ValidationError carries field-level messages keyed by the JSON field name.
// Message is used when the failure is not about a single field.
type ValidationError struct {
	Fields  map[string][]string
	Message string
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	var ue *UpstreamError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProviderNotFound):
		return KindNotFound
	case errors.Is(err, ErrUserExists):
		return KindConflict
	case errors.As(err, &ue):
		return KindUpstream
	default:
		return KindInternal
	}
}
