package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/puntoventa/providers-api/internal/api/middleware"
	"github.com/puntoventa/providers-api/internal/core/domain"
)

// ctxUserID returns the user id injected by the Auth middleware. A missing
// value means the route was mounted without Auth; treat it as unauthenticated.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextKeyUserID).(string)
	if userID == "" {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

func ctxAccessToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextKeyAccessToken).(string)
	return token
}
