package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-console/internal/config"
	"restaurant-console/internal/console"
	"restaurant-console/internal/database"
	"restaurant-console/internal/handler"
	"restaurant-console/internal/media"
	"restaurant-console/internal/notification"
	"restaurant-console/internal/router"
	"restaurant-console/internal/session"
	"restaurant-console/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting restaurant console")

	sess, err := session.FromToken(cfg.Auth.SessionToken, cfg.Auth.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	logger.Info().Str("owner_id", sess.OwnerID).Msg("session ready")

	// Create context for application lifecycle, cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database pool, only when the store or the event source needs it
	var pool *pgxpool.Pool
	if cfg.Store.Mode == config.StoreModePostgres {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()
	}

	// Remote entity store
	var remote store.RemoteStore
	switch cfg.Store.Mode {
	case config.StoreModePostgres:
		remote = store.NewPostgresStore(pool, logger)
	default:
		remote = store.NewHTTPStore(cfg.Store.BaseURL, nil, cfg.Store.RequestTimeout(), logger)
		logger.Info().Str("base_url", cfg.Store.BaseURL).Msg("using HTTP restaurant store")
	}

	// Image linker with S3 presigning and passthrough fallback
	var s3Linker media.Linker
	if cfg.S3.Enabled {
		s3Linker, err = media.NewS3Linker(ctx, cfg.S3.Bucket, cfg.S3.Region,
			time.Duration(cfg.S3.PresignTTL)*time.Second, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 image linker, image references served as is")
		}
	} else {
		logger.Info().Msg("S3 disabled, image references served as is")
	}
	linker := media.NewFallbackLinker(s3Linker, cfg.S3.Enabled, logger)

	// Console controllers and first load
	c := console.New(remote, sess, logger)
	if err := c.Load(ctx); err != nil {
		// The console still starts; the host sees the blocking state and may reload.
		logger.Warn().Err(err).Msg("initial console load failed")
	}

	// Order notifications
	intake := notification.NewIntake(logger)
	source, err := openEventSource(ctx, cfg.Events, sess, pool, logger)
	if err != nil {
		// Order events are optional; the console serves without them.
		logger.Warn().Err(err).Msg("order event source unavailable, new orders will not be shown")
	}

	// Initialize router
	mux := router.New(router.Handlers{
		Console:      handler.NewConsoleHandler(c, logger),
		Restaurant:   handler.NewRestaurantHandler(c, logger),
		Menu:         handler.NewMenuHandler(c, linker, logger),
		Notification: handler.NewNotificationHandler(intake, time.Local, logger),
	}, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if source != nil {
		g.Go(func() error {
			intake.Consume(gctx, source)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// openEventSource connects the configured order event source. It returns
// nil when order events are disabled.
func openEventSource(
	ctx context.Context,
	cfg config.EventsConfig,
	sess session.Session,
	pool *pgxpool.Pool,
	logger zerolog.Logger,
) (notification.EventSource, error) {
	switch cfg.Mode {
	case config.EventsModeWebSocket:
		src, err := notification.DialWebSocket(ctx, cfg.URL, sess, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.EventsModePostgres:
		src, err := notification.ListenPostgres(ctx, pool, cfg.Channel, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		logger.Info().Msg("order events disabled")
		return nil, nil
	}
}
