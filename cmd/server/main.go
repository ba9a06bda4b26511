// Command server starts the course catalog HTTP server.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/course-catalog/internal/adapter/events/redpanda"
	"github.com/fairyhunter13/course-catalog/internal/adapter/httpserver"
	"github.com/fairyhunter13/course-catalog/internal/adapter/session"
	"github.com/fairyhunter13/course-catalog/internal/adapter/store/catalogfile"
	"github.com/fairyhunter13/course-catalog/internal/adapter/store/postgres"
	"github.com/fairyhunter13/course-catalog/internal/app"
	"github.com/fairyhunter13/course-catalog/internal/config"
	"github.com/fairyhunter13/course-catalog/internal/domain"
	"github.com/fairyhunter13/course-catalog/internal/obs"
	"github.com/fairyhunter13/course-catalog/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes the HTTP and catalog instrumentation.
	obs.InitMetrics()

	shutdownTracer, err := obs.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// An unset session secret gets a random per-process one; sessions then
	// reset on every restart.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
		slog.Warn("SESSION_SECRET not set, using a random per-process secret")
	}

	ctx := context.Background()

	// Catalog store
	var (
		store  domain.CourseStore
		dbPing app.Pinger
	)
	if cfg.UsesPostgres() {
		pool, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			slog.Error("db schema setup failed", slog.Any("error", err))
			os.Exit(1)
		}
		store = postgres.New(pool)
		dbPing = pool
		slog.Info("catalog store ready", slog.String("backend", config.StorePostgres))
	} else {
		store = catalogfile.New(cfg.CatalogPath)
		slog.Info("catalog store ready", slog.String("backend", config.StoreFile), slog.String("path", cfg.CatalogPath))
	}

	// Session state store
	var (
		sessionStore session.Store
		sessionPing  app.Pinger
	)
	if cfg.UsesRedisSessions() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rs := session.NewRedisStore(rdb, cfg.SessionTTL)
		if err := rs.WaitReady(ctx, 30*time.Second); err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		sessionStore = rs
		sessionPing = rs
		slog.Info("session store ready", slog.String("backend", config.SessionRedis), slog.String("addr", cfg.RedisAddr))
	} else {
		sessionStore = session.NewMemoryStore(cfg.SessionTTL)
	}
	sessions := session.NewManager(cfg, sessionStore)

	// Optional change feed
	var events domain.EventPublisher
	if cfg.ChangeFeedEnabled {
		producer, err := redpanda.NewProducer(cfg.KafkaBrokers, cfg.ChangeFeedTopic)
		if err != nil {
			slog.Error("redpanda producer connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				slog.Error("failed to close change feed producer", slog.Any("error", err))
			}
		}()
		events = producer
		slog.Info("change feed enabled", slog.String("topic", cfg.ChangeFeedTopic))
	}

	catalogSvc := usecase.NewCatalogService(store, events)

	// Optional seeding of an empty catalog
	if err := seedCatalog(ctx, cfg, catalogSvc); err != nil {
		slog.Error("catalog seeding failed", slog.Any("error", err))
		os.Exit(1)
	}

	srv, err := httpserver.NewServer(cfg, catalogSvc)
	if err != nil {
		slog.Error("server init failed", slog.Any("error", err))
		os.Exit(1)
	}
	srv.StoreCheck, srv.SessionCheck = app.BuildReadinessChecks(cfg, dbPing, sessionPing)

	handler := app.BuildRouter(cfg, srv, sessions)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
