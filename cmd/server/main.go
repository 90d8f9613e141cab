package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/article-comments-api/internal/api"
	"github.com/article-comments-api/internal/broadcast"
	"github.com/article-comments-api/internal/config"
	"github.com/article-comments-api/internal/database"
	"github.com/article-comments-api/internal/metrics"
	"github.com/article-comments-api/internal/repository"
	"github.com/article-comments-api/internal/service"
	"github.com/article-comments-api/pkg/logger"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Msg("Starting article comments server...")

	// Open comment document
	store, err := database.New(&cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open comment document")
	}

	ids, err := repository.NewSnowflakeIDs(cfg.Store.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create id generator")
	}

	m := metrics.New()

	// Initialize repositories
	repos := repository.New(store, ids, log)

	// Initialize real-time fan-out
	hub := broadcast.New(cfg.Broadcast.Buffer, m, log)

	// Initialize services
	services := service.NewServices(repos, hub, m, log)

	// Initialize router
	router := api.NewRouter(services, hub, store, m, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("comments_file", store.Path()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Closing the hub ends every websocket stream so Shutdown does not wait on them
		hub.Close()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Server exited gracefully")
}
