package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/puntoventa/providers-api/internal/api/middleware"
	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn         func(ctx context.Context, raw string) error
	changePasswordFn func(ctx context.Context, userID, password string) error
	updateProfileFn  func(ctx context.Context, userID, name string) (*domain.User, error)
	deleteAccountFn  func(ctx context.Context, userID string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, raw string) error {
	return s.logoutFn(ctx, raw)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, password string) error {
	return s.changePasswordFn(ctx, userID, password)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, name)
}

func (s *stubAuthService) DeleteAccount(ctx context.Context, userID string) error {
	return s.deleteAccountFn(ctx, userID)
}

// newContext builds an echo context with the validator installed. When userID
// is non-empty the context looks as if the Auth middleware had run.
func newContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyAccessToken, "raw-token")
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return ve.Fields
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Name != "Ana" || in.Email != "ana@example.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleVendedor},
				Token: "tok",
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/register", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`, "")

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["message"] != "Usuario registrado exitosamente" || resp["token"] != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "u1" || user["role"] != "vendedor" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Register_AcceptsAnyRole(t *testing.T) {
	var got ports.RegisterInput
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			got = in
			return &ports.AuthResult{User: &domain.User{ID: "u1", Role: in.Role}, Token: "tok"}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/register",
		`{"name":"Ana","email":"ana@example.com","password":"secret1","role":"gerente"}`, "")

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Role != "gerente" {
		t.Fatalf("expected role to be passed through, got %q", got.Role)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/api/register", `{"name":"","email":"not-an-email","password":"123"}`, "")

	err := NewAuthHandler(stub).Register(c)

	fields := validationFields(t, err)
	for _, f := range []string{"name", "email", "password"} {
		if len(fields[f]) == 0 {
			t.Fatalf("expected message for %s, got %+v", f, fields)
		}
	}
	if fields["password"][0] != "The password field must be at least 6 characters." {
		t.Fatalf("unexpected password message: %q", fields["password"][0])
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newContext(http.MethodPost, "/api/register", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`, "")

	err := NewAuthHandler(stub).Register(c)

	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	var f *Failure
	if !errors.As(err, &f) || f.Summary != "Error al registrar usuario" {
		t.Fatalf("expected annotated failure, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/register", `{"name":`, "")

	err := NewAuthHandler(&stubAuthService{}).Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			return &ports.AuthResult{User: &domain.User{ID: "u1", Email: email}, Token: "tok"}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/login", `{"email":"ana@example.com","password":"secret1"}`, "")

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["message"] != "Login exitoso" || resp["token"] != "tok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/api/login", `{"email":"ana@example.com","password":"wrong"}`, "")

	err := NewAuthHandler(stub).Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout_RevokesRequestToken(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, raw string) error {
			revoked = raw
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/logout", "", "u1")

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "raw-token" {
		t.Fatalf("expected request token to be revoked, got %q", revoked)
	}
	if resp := decode(t, rec); resp["message"] != "Logout exitoso" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, userID, password string) error {
			if userID != "u1" || password != "newsecret" {
				t.Fatalf("unexpected args: %s %s", userID, password)
			}
			return nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/change-password", `{"password":"newsecret"}`, "u1")

	if err := NewAuthHandler(stub).ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode(t, rec); resp["message"] != "Contraseña actualizada exitosamente" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_ChangePassword_RequiresAuthContext(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/change-password", `{"password":"newsecret"}`, "")

	err := NewAuthHandler(&stubAuthService{}).ChangePassword(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	stub := &stubAuthService{
		updateProfileFn: func(_ context.Context, userID, name string) (*domain.User, error) {
			return &domain.User{ID: userID, Name: name}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/update-profile", `{"name":"Ana María"}`, "u1")

	if err := NewAuthHandler(stub).UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	user, _ := resp["user"].(map[string]any)
	if resp["message"] != "Perfil actualizado exitosamente" || user["name"] != "Ana María" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_DeleteAccount(t *testing.T) {
	var deleted string
	stub := &stubAuthService{
		deleteAccountFn: func(_ context.Context, userID string) error {
			deleted = userID
			return nil
		},
	}
	c, rec := newContext(http.MethodDelete, "/api/delete-account", `{"confirmation":"eliminarcuenta"}`, "u1")

	if err := NewAuthHandler(stub).DeleteAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "u1" {
		t.Fatalf("expected u1 deleted, got %q", deleted)
	}
	if resp := decode(t, rec); resp["message"] != "Cuenta eliminada exitosamente" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_DeleteAccount_WrongConfirmation(t *testing.T) {
	stub := &stubAuthService{
		deleteAccountFn: func(context.Context, string) error {
			t.Fatal("service should not be called")
			return nil
		},
	}

	for _, body := range []string{`{"confirmation":"borrar"}`, `{}`} {
		c, _ := newContext(http.MethodDelete, "/api/delete-account", body, "u1")

		err := NewAuthHandler(stub).DeleteAccount(c)

		var ve *domain.ValidationError
		if !errors.As(err, &ve) || ve.Message != confirmationMessage {
			t.Fatalf("body %s: expected confirmation error, got %v", body, err)
		}
	}
}
