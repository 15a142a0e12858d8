// Command server runs the providers API.
//
// @title                       Providers API
// @version                     1.0
// @description                 Account management with opaque bearer tokens and provider CRUD.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/puntoventa/providers-api/internal/api"
	"github.com/puntoventa/providers-api/internal/api/handler"
	"github.com/puntoventa/providers-api/internal/api/metrics"
	"github.com/puntoventa/providers-api/internal/core/ports"
	"github.com/puntoventa/providers-api/internal/core/service"
	"github.com/puntoventa/providers-api/internal/infrastructure/config"
	"github.com/puntoventa/providers-api/internal/infrastructure/db/mongo"
	"github.com/puntoventa/providers-api/internal/infrastructure/db/redis"
	"github.com/puntoventa/providers-api/internal/infrastructure/identity"
	"github.com/puntoventa/providers-api/internal/infrastructure/queue"
	"github.com/puntoventa/providers-api/pkg/logger"
)

const serviceName = "providers-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx, nil)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
		Env:     cfg.Env,
	})

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	tokenRepo := mongo.NewTokenRepository(db)
	userRepo := mongo.NewUserRepository(db)
	providerRepo := mongo.NewProviderRepository(db)
	indexed := []mongo.Indexer{tokenRepo, userRepo, providerRepo}

	readiness := map[string]handler.Pinger{"mongodb": handler.MongoPinger(client)}

	// --- Identity provider ---
	var identityProvider ports.IdentityProvider
	switch cfg.Identity.Backend {
	case config.IdentityToolkit:
		identityProvider, err = identity.NewToolkitProvider(ctx, identity.Config{
			CredentialsPath: cfg.Identity.CredentialsPath,
			APIKey:          cfg.Identity.APIKey,
		})
		if err != nil {
			return err
		}
	default:
		local := mongo.NewLocalIdentity(db)
		indexed = append(indexed, local)
		identityProvider = local
	}

	if err := mongo.EnsureIndexes(ctx, indexed...); err != nil {
		return err
	}

	// --- Optional Redis token cache ---
	var cache service.TokenCache
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer closeRedis(rdb, log)
		cache = redis.NewTokenCache(rdb, cfg.Tokens.CacheTTL)
		readiness["redis"] = handler.RedisPinger(rdb)
	}

	// --- Optional last-used tracking ---
	var toucher service.TokenToucher
	if cfg.Tokens.TouchLastUsed {
		dispatcher := queue.NewDispatcher(cfg.Tokens.TouchWorkers, tokenRepo, log)
		dispatcher.Start(ctx)
		metrics.RegisterTouchDropped(dispatcher.Dropped)
		toucher = dispatcher
	}

	// --- Services ---
	tokenService := service.NewTokenService(tokenRepo, cache, toucher, log)
	authService := service.NewAuthService(identityProvider, userRepo, tokenService, log)
	providerService := service.NewProviderService(providerRepo, log)

	e := api.NewRouter(api.Dependencies{
		Log:            log,
		ExposeUpstream: cfg.ExposeUpstream(),
		Tokens:         tokenService,
		Auth:           authService,
		Providers:      providerService,
		Readiness:      readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("identity_backend", cfg.Identity.Backend).
			Bool("token_cache", cache != nil).
			Bool("token_touch", toucher != nil).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
}
