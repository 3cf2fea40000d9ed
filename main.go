// api/main.go
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/api/analytics"
	"portfolio/api/config"
	"portfolio/api/database"
	"portfolio/api/handlers"
	"portfolio/api/logger"
	"portfolio/api/middleware"
	"portfolio/api/store"
	"portfolio/api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL (sessions, page views, projects, users, and events by default) ---
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	dbClient, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL database")
	}
	defer dbClient.Close()

	healthChecks := map[string]handlers.Pinger{"postgres": dbClient}

	// --- Event store ---
	var eventStore analytics.EventRepository
	switch cfg.Events.Backend {
	case config.EventsBackendClickHouse:
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize ClickHouse database")
		}
		defer chClient.Close()
		eventStore = store.NewClickHouseEventStore(chClient)
		healthChecks["clickhouse"] = chClient
	default:
		eventStore = store.NewPostgresEventStore(dbClient.DB)
	}

	// --- Stores and services ---
	sessionStore := store.NewSessionStore(dbClient.DB)
	projectStore := store.NewProjectStore(dbClient.DB)
	userStore := store.NewUserStore(dbClient.DB)

	service := analytics.NewService(sessionStore, eventStore, projectStore, cfg.Events.Backend)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = handlers.BootstrapAdmin(bootCtx, userStore, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	bootCancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to bootstrap admin user")
	}

	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Fatal().Err(err).Msg("Failed to generate JWT secret")
		}
		logger.Warn().Msg("JWT_SECRET_KEY not set; using an ephemeral secret, tokens will not survive a restart")
	}

	authenticator := middleware.NewAuthenticator(secret, cfg.Auth.DefaultAPIKey)

	var limiter *middleware.IPRateLimiter
	if !cfg.RateLimit.Disabled {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		defer limiter.Stop()
	}

	utils.RegisterValidators()

	r, err := newRouter(routerDeps{
		cfg:           cfg,
		analytics:     handlers.NewAnalyticsHandlers(service),
		projects:      handlers.NewProjectHandlers(service),
		auth:          handlers.NewAuthHandlers(userStore, authenticator, secret, cfg.Auth.TokenTTL, cfg.Auth.CookieSecure),
		health:        handlers.NewHealthHandlers(healthChecks),
		authenticator: authenticator,
		limiter:       limiter,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("events_backend", cfg.Events.Backend).Msg("API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("API server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exiting.")
}
