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

	"familyplaces_backend/internal/directions"
	apphttp "familyplaces_backend/internal/http"
	"familyplaces_backend/internal/http/router"
	"familyplaces_backend/internal/places"
	"familyplaces_backend/internal/savedplaces"
	"familyplaces_backend/platform/config"
	"familyplaces_backend/platform/db"
	"familyplaces_backend/platform/httpkit"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		var connectErr error
		pool, connectErr = db.NewPool(ctx, cfg)
		return connectErr
	}); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	limiter, closeLimiter, err := newRateLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	overpass := places.NewOverpassClient(cfg, log)
	osrm := directions.NewOSRMClient(cfg, log)

	placesModule := places.NewModule(overpass, log)
	directionsModule := directions.NewModule(osrm, log)
	savedPlacesModule := savedplaces.NewModule(pool, val, log)

	app := &apphttp.App{
		Config:      cfg,
		Logger:      log,
		Health:      db.NewPoolAdapter(pool),
		RateLimiter: limiter,
		Upstreams:   []apphttp.UpstreamStatus{overpass, osrm},
		Modules: []apphttp.Module{
			placesModule,
			directionsModule,
			savedPlacesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newRateLimiter prefers a Redis-backed limiter shared across instances and
// falls back to a per-process limiter when REDIS_URL is unset.
func newRateLimiter(ctx context.Context, cfg config.RateLimitConfig, log *logger.Logger) (httpkit.Limiter, func(), error) {
	perMinute := cfg.GetPublicRateLimitPerMinute()

	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; using in-process rate limiter")
		return httpkit.NewIPRateLimiter(perMinute), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	if err := withRetry(ctx, log, "redis connection", 3, time.Second, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info("redis rate limiter enabled")

	return httpkit.NewRedisRateLimiter(client, perMinute, time.Minute), func() { _ = client.Close() }, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
