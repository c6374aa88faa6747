// Command api runs the auto service record backend: a JSON HTTP API
// over PostgreSQL for managing clients, their cars, and repair
// records.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"github.com/rmaksimov/autoservice/internal/auth"
	"github.com/rmaksimov/autoservice/internal/config"
	"github.com/rmaksimov/autoservice/internal/database"
	"github.com/rmaksimov/autoservice/internal/handler"
	"github.com/rmaksimov/autoservice/internal/logger"
	"github.com/rmaksimov/autoservice/internal/middleware"
	"github.com/rmaksimov/autoservice/internal/repository"
	"github.com/rmaksimov/autoservice/internal/router"
	"github.com/rmaksimov/autoservice/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(cfg)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, &appLogger, cfg); err != nil {
		cancelMigrate()
		appLogger.Fatal().Err(err).Msg("failed to run database migrations")
	}
	cancelMigrate()

	s, err := server.New(cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	tokens := auth.NewTokenService(cfg.Auth)
	authSvc := auth.NewService(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, tokens)

	repos := repository.NewRepositories(s)
	mw := middleware.NewMiddlewares(s, tokens)
	handlers := handler.NewHandlers(s, authSvc, repos)

	s.SetupHTTPServer(router.New(handlers, mw))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		appLogger.Fatal().Err(err).Msg("server stopped unexpectedly")
	case sig := <-quit:
		appLogger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}

	appLogger.Info().Msg("server stopped")
}
