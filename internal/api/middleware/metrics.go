package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/puntoventa/providers-api/internal/api/metrics"
)

// Metrics records the duration of every request under its route pattern.
// Errors are rendered here through the echo error handler so the recorded
// status is the one the client sees.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
