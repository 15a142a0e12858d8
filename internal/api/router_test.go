package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

type fakeTokens struct {
	owners  map[string]string
	revoked []string
}

func (f *fakeTokens) Issue(_ context.Context, userID string) (string, error) {
	raw := "tok-" + userID
	f.owners[raw] = userID
	return raw, nil
}

func (f *fakeTokens) Verify(_ context.Context, raw string) (string, error) {
	if id, ok := f.owners[raw]; ok {
		return id, nil
	}
	return "", domain.ErrUnauthenticated
}

func (f *fakeTokens) RevokeByToken(_ context.Context, raw string) error {
	f.revoked = append(f.revoked, raw)
	delete(f.owners, raw)
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID string) error {
	for raw, id := range f.owners {
		if id == userID {
			delete(f.owners, raw)
		}
	}
	return nil
}

type fakeAuth struct {
	tokens *fakeTokens
}

func (f *fakeAuth) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	tok, _ := f.tokens.Issue(ctx, "u1")
	return &ports.AuthResult{User: &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.DefaultRole}, Token: tok}, nil
}

func (f *fakeAuth) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (f *fakeAuth) Logout(ctx context.Context, raw string) error {
	return f.tokens.RevokeByToken(ctx, raw)
}

func (f *fakeAuth) ChangePassword(context.Context, string, string) error { return nil }

func (f *fakeAuth) UpdateProfile(_ context.Context, userID, name string) (*domain.User, error) {
	return &domain.User{ID: userID, Name: name}, nil
}

func (f *fakeAuth) DeleteAccount(ctx context.Context, userID string) error {
	return f.tokens.RevokeAllForUser(ctx, userID)
}

type fakeProviders struct{}

func (fakeProviders) Create(_ context.Context, callerID string, in ports.ProviderInput) (*domain.Provider, error) {
	return &domain.Provider{ID: "p1", CompanyName: in.CompanyName, UserID: callerID}, nil
}

func (fakeProviders) List(context.Context, ports.ListProvidersInput) ([]*domain.Provider, error) {
	return []*domain.Provider{}, nil
}

func (fakeProviders) Get(context.Context, string) (*domain.Provider, error) {
	return nil, domain.ErrProviderNotFound
}

func (fakeProviders) Update(context.Context, string, domain.ProviderPatch) (*domain.Provider, error) {
	return nil, domain.ErrProviderNotFound
}

func (fakeProviders) Delete(context.Context, string) error {
	return domain.ErrProviderNotFound
}

func newTestServer() (http.Handler, *fakeTokens) {
	tokens := &fakeTokens{owners: map[string]string{}}
	e := NewRouter(Dependencies{
		Log:       zerolog.Nop(),
		Tokens:    tokens,
		Auth:      &fakeAuth{tokens: tokens},
		Providers: fakeProviders{},
	})
	return e, tokens
}

func do(t *testing.T, h http.Handler, method, target, token, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func TestRouter_TokenLifecycle(t *testing.T) {
	srv, tokens := newTestServer()

	code, resp := do(t, srv, http.MethodPost, "/api/register", "", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
	if code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d %+v", code, resp)
	}
	token, _ := resp["token"].(string)

	if code, _ := do(t, srv, http.MethodGet, "/api/providers", token, ""); code != http.StatusOK {
		t.Fatalf("list with token: expected 200, got %d", code)
	}

	if code, _ := do(t, srv, http.MethodPost, "/api/logout", token, ""); code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", code)
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != token {
		t.Fatalf("expected request token revoked, got %v", tokens.revoked)
	}

	code, resp = do(t, srv, http.MethodGet, "/api/providers", token, "")
	if code != http.StatusUnauthorized || resp["error"] != "Unauthenticated" {
		t.Fatalf("revoked token: expected 401, got %d %+v", code, resp)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/logout"},
		{http.MethodPost, "/api/change-password"},
		{http.MethodPost, "/api/update-profile"},
		{http.MethodDelete, "/api/delete-account"},
		{http.MethodGet, "/api/providers"},
		{http.MethodPost, "/api/providers"},
		{http.MethodGet, "/api/providers/p1"},
		{http.MethodPut, "/api/providers/p1"},
		{http.MethodPatch, "/api/providers/p1"},
		{http.MethodDelete, "/api/providers/p1"},
	}

	for _, r := range routes {
		code, resp := do(t, srv, r.method, r.path, "", "")
		if code != http.StatusUnauthorized || resp["error"] != "Unauthenticated" {
			t.Fatalf("%s %s: expected 401, got %d %+v", r.method, r.path, code, resp)
		}
	}
}

func TestRouter_RendersDomainErrors(t *testing.T) {
	srv, tokens := newTestServer()
	token, _ := tokens.Issue(context.Background(), "u1")

	code, resp := do(t, srv, http.MethodPost, "/api/login", "", `{"email":"ana@example.com","password":"wrong"}`)
	if code != http.StatusUnauthorized || resp["error"] != "Credenciales incorrectas" {
		t.Fatalf("login: unexpected %d %+v", code, resp)
	}

	code, resp = do(t, srv, http.MethodGet, "/api/providers/p404", token, "")
	if code != http.StatusNotFound || resp["error"] != "Provider not found" {
		t.Fatalf("get: unexpected %d %+v", code, resp)
	}

	code, resp = do(t, srv, http.MethodDelete, "/api/delete-account", token, `{"confirmation":"no"}`)
	if code != http.StatusUnprocessableEntity || resp["message"] != `Debes escribir "eliminarcuenta" para confirmar.` {
		t.Fatalf("delete-account: unexpected %d %+v", code, resp)
	}

	code, resp = do(t, srv, http.MethodPost, "/api/register", "", `{"name":`)
	if code != http.StatusBadRequest || resp["error"] != "Invalid JSON payload" {
		t.Fatalf("bad json: unexpected %d %+v", code, resp)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer()

	if code, resp := do(t, srv, http.MethodGet, "/health", "", ""); code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("health: unexpected %d %+v", code, resp)
	}
	if code, _ := do(t, srv, http.MethodGet, "/health/ready", "", ""); code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "providers_api_") {
		t.Fatalf("metrics: unexpected %d", rec.Code)
	}
}
