// Package identity talks to the external identity provider (Firebase Auth
// through the Google Identity Toolkit API).
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// Config selects the credentials for the Identity Toolkit API. Account
// administration (password, display name, deletion by uid) needs a service
// account; sign-up and password checks work with the Web API key alone.
type Config struct {
	CredentialsPath string
	APIKey          string
}

// ToolkitProvider implements ports.IdentityProvider.
type ToolkitProvider struct {
	rp *identitytoolkit.RelyingpartyService
}

// NewToolkitProvider builds the API client from cfg. Extra options are
// appended last and win over cfg.
func NewToolkitProvider(ctx context.Context, cfg Config, extra ...option.ClientOption) (*ToolkitProvider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, extra...)

	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit client: %w", err)
	}
	return &ToolkitProvider{rp: identitytoolkit.NewRelyingpartyService(svc)}, nil
}

func (p *ToolkitProvider) CreateUser(ctx context.Context, name, email, password string) (*domain.Identity, error) {
	resp, err := p.rp.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: name,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapError("create user", err)
	}

	ident := &domain.Identity{UID: resp.LocalId, Email: resp.Email, DisplayName: resp.DisplayName}
	if ident.DisplayName == "" {
		ident.DisplayName = name
	}
	if ident.Email == "" {
		ident.Email = email
	}
	return ident, nil
}

func (p *ToolkitProvider) VerifyPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	resp, err := p.rp.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapError("verify password", err)
	}
	return &domain.Identity{UID: resp.LocalId, Email: resp.Email, DisplayName: resp.DisplayName}, nil
}

func (p *ToolkitProvider) UpdatePassword(ctx context.Context, uid, password string) error {
	_, err := p.rp.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		LocalId:  uid,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return mapError("update password", err)
	}
	return nil
}

func (p *ToolkitProvider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	_, err := p.rp.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		LocalId:     uid,
		DisplayName: name,
	}).Context(ctx).Do()
	if err != nil {
		return mapError("update display name", err)
	}
	return nil
}

func (p *ToolkitProvider) DeleteUser(ctx context.Context, uid string) error {
	_, err := p.rp.DeleteAccount(&identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest{
		LocalId: uid,
	}).Context(ctx).Do()
	if err != nil {
		return mapError("delete user", err)
	}
	return nil
}

// mapError turns the API's error codes into domain errors. The code is the
// leading token of the message, e.g. "WEAK_PASSWORD : Password should be ...".
func mapError(op string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return domain.IdentityError(op, err)
	}

	code, _, _ := strings.Cut(gerr.Message, " ")
	switch code {
	case "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return domain.ErrInvalidCredentials
	case "EMAIL_EXISTS":
		return domain.ErrUserExists
	case "USER_NOT_FOUND":
		return domain.ErrUserNotFound
	case "WEAK_PASSWORD":
		return domain.NewValidationError("password", "The password must be at least 6 characters.")
	case "INVALID_EMAIL":
		return domain.NewValidationError("email", "The email must be a valid email address.")
	}
	return domain.IdentityError(op, err)
}
