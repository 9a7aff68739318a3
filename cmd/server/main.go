// Package main is the entry point for the stockview API server.
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

	"stockview/internal/config"
	"stockview/internal/domain/views"
	"stockview/internal/infrastructure/cache"
	v1 "stockview/internal/infrastructure/http/v1"
	"stockview/internal/infrastructure/metrics"
	"stockview/internal/infrastructure/odoo"
	"stockview/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting stockview server", "version", version, "env", cfg.AppEnv)

	if err := cfg.RequireBackend(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	// --- Backend client ---
	client := odoo.NewClient(odoo.Config{
		URL:          cfg.OdooURL,
		DB:           cfg.OdooDB,
		User:         cfg.OdooUser,
		Password:     cfg.OdooPassword,
		Timeout:      time.Duration(cfg.OdooTimeoutMs) * time.Millisecond,
		RateLimitRPS: cfg.OdooRateLimitRPS,
		Limit:        cfg.FetchLimit,
	})
	if _, err := client.Login(ctx); err != nil {
		// Not fatal: the backend may come up later, readiness reports it.
		log.Warnw("backend login failed", "url", cfg.OdooURL, "db", cfg.OdooDB, "error", err)
	}

	// --- Snapshots ---
	reg := metrics.NewRegistry()
	store := cache.NewSnapshotStore(client, cache.Config{
		Preload:         cfg.SnapshotPreload,
		RefreshInterval: cfg.SnapshotRefreshInterval,
		Observer:        reg.ObserveFetch,
	})
	store.OnInvalidation(func(collection string, records int) {
		log.Debugw("snapshot refreshed", "collection", collection, "records", records)
	})
	if err := store.Start(ctx); err != nil {
		log.Fatalw("failed to start snapshot store", "error", err)
	}
	defer store.Stop()

	// --- Router ---
	var maxAge time.Duration
	if cfg.SnapshotRefreshInterval > 0 && len(cfg.SnapshotPreload) > 0 {
		maxAge = 3 * cfg.SnapshotRefreshInterval
	}
	handler := v1.NewHandler(v1.RouterConfig{
		Logger:           log,
		Views:            views.NewService(store, reg),
		MetadataRegistry: setupMetadataRegistry(),
		Metrics:          reg,
		Backend:          client,
		Snapshots:        store,
		MaxSnapshotAge:   maxAge,
		Version:          version,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
