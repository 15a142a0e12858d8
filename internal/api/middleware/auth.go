package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/puntoventa/providers-api/internal/api/metrics"
	"github.com/puntoventa/providers-api/internal/core/domain"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

// Auth resolves the bearer token to a user id and injects it, together with
// the raw token, into the context. Every failure to authenticate yields the
// same domain.ErrUnauthenticated; storage failures pass through unchanged.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			userID, err := tokens.Verify(c.Request().Context(), raw)
			if err != nil {
				result := "error"
				if errors.Is(err, domain.ErrUnauthenticated) {
					result = "unauthenticated"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				return err
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyAccessToken, raw)

			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; an empty token is rejected.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
