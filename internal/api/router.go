package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/puntoventa/providers-api/docs"
	"github.com/puntoventa/providers-api/internal/api/handler"
	"github.com/puntoventa/providers-api/internal/api/middleware"
	"github.com/puntoventa/providers-api/internal/core/ports"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Log            zerolog.Logger
	ExposeUpstream bool

	Tokens    ports.TokenService
	Auth      ports.AuthService
	Providers ports.ProviderService

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.ExposeUpstream)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(middleware.Metrics())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	providerHandler := handler.NewProviderHandler(deps.Providers, deps.Log)
	readiness := handler.NewReadinessHandler(deps.Readiness)
	requireAuth := middleware.Auth(deps.Tokens)

	api := e.Group("/api")

	// --- Public auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// --- Authenticated account routes ---
	account := api.Group("", requireAuth)
	account.POST("/logout", authHandler.Logout)
	account.POST("/change-password", authHandler.ChangePassword)
	account.POST("/update-profile", authHandler.UpdateProfile)
	account.DELETE("/delete-account", authHandler.DeleteAccount)

	// --- Providers ---
	providers := api.Group("/providers", requireAuth)
	providers.GET("", providerHandler.List)
	providers.POST("", providerHandler.Create)
	providers.GET("/:id", providerHandler.Get)
	providers.PUT("/:id", providerHandler.Update)
	providers.PATCH("/:id", providerHandler.Update)
	providers.DELETE("/:id", providerHandler.Delete)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readiness.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request. Headers and bodies are
// never logged, so bearer tokens and passwords stay out of the logs.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
