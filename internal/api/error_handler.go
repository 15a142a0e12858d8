package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/api/handler"
	"github.com/puntoventa/providers-api/internal/core/domain"
)

const (
	msgValidationFailed   = "Validation failed"
	msgUnauthenticated    = "Unauthenticated"
	msgInvalidCredentials = "Credenciales incorrectas"
	msgEmailTaken         = "The email has already been taken."
	msgInternal           = "Internal server error"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string              `json:"error"`
	Message  string              `json:"message,omitempty"`
	Messages map[string][]string `json:"messages,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders every
// failure from its domain.ErrorKind. Upstream messages are forwarded only
// when exposeUpstream is set; 5xx responses are always logged.
func NewHTTPErrorHandler(log zerolog.Logger, exposeUpstream bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, exposeUpstream)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", code).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, exposeUpstream bool) (int, errorResponse) {
	// Echo's own errors (bad payload, 404 from router, 405, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	summary := msgInternal
	var f *handler.Failure
	if errors.As(err, &f) {
		summary = f.Summary
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		var ve *domain.ValidationError
		errors.As(err, &ve)
		return http.StatusUnprocessableEntity, errorResponse{
			Error:    msgValidationFailed,
			Message:  ve.Message,
			Messages: ve.Fields,
		}
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized, errorResponse{Error: msgUnauthenticated}
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials}
	case domain.KindNotFound:
		return http.StatusNotFound, errorResponse{Error: notFoundMessage(err)}
	case domain.KindConflict:
		return http.StatusConflict, errorResponse{Error: msgEmailTaken}
	case domain.KindUpstream:
		resp := errorResponse{Error: summary}
		if exposeUpstream {
			var ue *domain.UpstreamError
			errors.As(err, &ue)
			resp.Message = ue.Err.Error()
		}
		return http.StatusInternalServerError, resp
	default:
		return http.StatusInternalServerError, errorResponse{Error: summary}
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrProviderNotFound):
		return "Provider not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return "User not found"
	default:
		return "Not found"
	}
}
