package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jcmexdev/pizzeria/internal/pkg/config"
	"github.com/jcmexdev/pizzeria/internal/pkg/telemetry"
	"github.com/jcmexdev/pizzeria/internal/storefront/adapters/httpx"
	"github.com/jcmexdev/pizzeria/internal/storefront/app"
	"github.com/jcmexdev/pizzeria/internal/storefront/catalog"
	"github.com/jcmexdev/pizzeria/internal/storefront/deals"
	"github.com/jcmexdev/pizzeria/internal/storefront/domain"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage/memory"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage/redis"
	"github.com/jcmexdev/pizzeria/internal/storefront/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.InitLogger("info")
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	bundles, err := loadBundles(cfg.DealsFile)
	if err != nil {
		slog.Error("failed to load deals", "file", cfg.DealsFile, "error", err)
		os.Exit(1)
	}

	storefront := app.New(catalog.NewFeed(cfg.CatalogSource), bundles, store)
	if err := storefront.Load(ctx); err != nil {
		slog.Warn("storefront started with partially restored state", "error", err)
	}
	if _, err := storefront.CatalogState(); err != nil {
		slog.Warn("catalog unavailable, retry with POST /catalog/reload", "source", cfg.CatalogSource, "error", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpx.NewRouter(httpx.NewHandler(storefront)),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("storefront running", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		s := redis.New(cfg.RedisAddr, cfg.Namespace)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return s, s, nil
	case config.DriverMemory:
		return memory.New(), io.NopCloser(nil), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, err
		}
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}

func loadBundles(path string) ([]domain.Bundle, error) {
	if path == "" {
		return deals.Default()
	}
	return deals.LoadFile(path)
}
