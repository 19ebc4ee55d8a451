// Package main is the entry point for the PulseLearn analytics service.
//
// The service is a read-only analytics layer over the course platform's
// event store: it derives mastery profiles, streaks, velocity estimates,
// and completion predictions on demand and serves them over a REST API.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: enrollment, quiz, and user entities with no external dependencies
// - Analytics: pure derivation functions over immutable snapshots
// - Application: query handlers (CQRS read side)
// - Infrastructure: PostgreSQL event store, Redis projection cache
// - Interface: REST API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulselearn/pulselearn-analytics/config"
	"github.com/pulselearn/pulselearn-analytics/internal/application/query"
	"github.com/pulselearn/pulselearn-analytics/internal/infrastructure/persistence/postgres"
	"github.com/pulselearn/pulselearn-analytics/internal/infrastructure/persistence/redis"
	"github.com/pulselearn/pulselearn-analytics/internal/infrastructure/store"
	httpserver "github.com/pulselearn/pulselearn-analytics/internal/interface/http"
	"github.com/pulselearn/pulselearn-analytics/internal/interface/http/handlers"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.AddCaller,
	})
	log.Info("starting PulseLearn analytics service",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Event store (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to event store")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if cfg.Database.MigrateOnStart {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Projection cache (Redis, optional)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	if !cfg.Redis.Disabled {
		log.Info("connecting to projection cache")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Every projection recomputes from the event store on a miss, so
			// the service stays correct without Redis, just slower.
			log.Warn("failed to connect to Redis, projection cache disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Repositories and snapshot provider
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories")
	userRepo := postgres.NewUserRepository(dbConn)
	enrollmentRepo := postgres.NewEnrollmentRepository(dbConn)
	eventRepo := postgres.NewEventRepository(dbConn, log)
	quizRepo := postgres.NewQuizRepository(dbConn, log)

	provider := store.NewProvider(userRepo, enrollmentRepo, eventRepo, quizRepo, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Query handlers (CQRS read side)
	// ─────────────────────────────────────────────────────────────────────────
	params := cfg.Analytics.Params()

	var dashboardCache query.DashboardCache
	if redisCache != nil {
		dashboardCache = redis.NewDashboardCache(redisCache, cfg.Redis.DashboardTTL)
	}

	masteryHandler := query.NewGetMasteryProfileHandler(provider, params)
	dashboardHandler := query.NewGetPerformanceDashboardHandler(provider, dashboardCache, params, log)
	velocityHandler := query.NewGetLearningVelocityHandler(provider, params)
	predictionHandler := query.NewGetCompletionPredictionHandler(provider, params)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. Health checks
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("postgres", handlers.NewDatabaseCheck(dbConn))
	if redisCache != nil {
		healthChecker.AddCheck("redis", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		GetMasteryProfileHandler:       masteryHandler,
		GetPerformanceDashboardHandler: dashboardHandler,
		GetLearningVelocityHandler:     velocityHandler,
		GetCompletionPredictionHandler: predictionHandler,
		Logger:                         log,
		HealthChecker:                  healthChecker,
	})

	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
