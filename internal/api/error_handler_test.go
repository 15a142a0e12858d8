package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/api/handler"
	"github.com/puntoventa/providers-api/internal/core/domain"
)

func render(t *testing.T, err error, exposeUpstream bool) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), exposeUpstream)(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body
}

func TestHTTPErrorHandler(t *testing.T) {
	storageDown := domain.StorageError("insert token", errors.New("connection refused"))

	cases := []struct {
		name        string
		err         error
		expose      bool
		wantCode    int
		wantError   string
		wantMessage string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, false, http.StatusUnauthorized, "Unauthenticated", ""},
		{"invalid credentials", &handler.Failure{Summary: "Error al iniciar sesión", Err: domain.ErrInvalidCredentials}, true, http.StatusUnauthorized, "Credenciales incorrectas", ""},
		{"email taken", &handler.Failure{Summary: "Error al registrar usuario", Err: domain.ErrUserExists}, true, http.StatusConflict, "The email has already been taken.", ""},
		{"provider not found", domain.ErrProviderNotFound, false, http.StatusNotFound, "Provider not found", ""},
		{"user not found", domain.ErrUserNotFound, false, http.StatusNotFound, "User not found", ""},
		{"upstream exposed", &handler.Failure{Summary: "Error al registrar usuario", Err: storageDown}, true, http.StatusInternalServerError, "Error al registrar usuario", "connection refused"},
		{"upstream hidden", &handler.Failure{Summary: "Error al registrar usuario", Err: storageDown}, false, http.StatusInternalServerError, "Error al registrar usuario", ""},
		{"internal with summary", &handler.Failure{Summary: "Error creating provider", Err: errors.New("boom")}, true, http.StatusInternalServerError, "Error creating provider", ""},
		{"internal without summary", errors.New("boom"), true, http.StatusInternalServerError, "Internal server error", ""},
		{"echo http error", echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload"), false, http.StatusBadRequest, "Invalid JSON payload", ""},
		{"route not found", echo.ErrNotFound, false, http.StatusNotFound, "Not Found", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := render(t, tc.err, tc.expose)

			if code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, code)
			}
			if body["error"] != tc.wantError {
				t.Fatalf("expected error %q, got %v", tc.wantError, body["error"])
			}
			msg, _ := body["message"].(string)
			if msg != tc.wantMessage {
				t.Fatalf("expected message %q, got %q", tc.wantMessage, msg)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	ve := &domain.ValidationError{}
	ve.Add("email", "The email field is required.")
	ve.Add("password", "The password field must be at least 6 characters.")

	code, body := render(t, &handler.Failure{Summary: "Error al registrar usuario", Err: ve}, true)

	if code != http.StatusUnprocessableEntity || body["error"] != "Validation failed" {
		t.Fatalf("unexpected response: %d %+v", code, body)
	}
	messages, ok := body["messages"].(map[string]any)
	if !ok {
		t.Fatalf("expected messages object, got %+v", body)
	}
	email, _ := messages["email"].([]any)
	if len(email) != 1 || email[0] != "The email field is required." {
		t.Fatalf("unexpected email messages: %+v", messages["email"])
	}
	if _, ok := body["message"]; ok {
		t.Fatal("field validation should not carry a message")
	}
}

func TestHTTPErrorHandler_ValidationMessage(t *testing.T) {
	code, body := render(t, &domain.ValidationError{Message: `Debes escribir "eliminarcuenta" para confirmar.`}, false)

	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if body["message"] != `Debes escribir "eliminarcuenta" para confirmar.` {
		t.Fatalf("unexpected message: %+v", body)
	}
	if _, ok := body["messages"]; ok {
		t.Fatal("message-only validation should not carry messages")
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/api/providers", nil)
	rec := httptest.NewRecorder()

	NewHTTPErrorHandler(zerolog.Nop(), false)(domain.ErrUnauthenticated, e.NewContext(req, rec))

	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("unexpected HEAD response: %d %q", rec.Code, rec.Body.String())
	}
}
