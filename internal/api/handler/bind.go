package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/puntoventa/providers-api/internal/core/domain"
)

// errInvalidPayload is returned for bodies that are not valid JSON.
var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}

// outcome is the metrics label for err.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if _, ok := err.(*echo.HTTPError); ok {
		return "bad_request"
	}
	return domain.KindOf(err).String()
}
