package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nulzo/provider-engine/cmd"
	"github.com/nulzo/provider-engine/internal/catalog"
	"github.com/nulzo/provider-engine/internal/config"
	"github.com/nulzo/provider-engine/internal/engine"
	"github.com/nulzo/provider-engine/internal/platform/logger"
	"github.com/nulzo/provider-engine/internal/platform/otel"
	"github.com/nulzo/provider-engine/internal/server"
	"github.com/nulzo/provider-engine/internal/store/cache"
	"github.com/nulzo/provider-engine/internal/store/cache/memory"
	"github.com/nulzo/provider-engine/internal/store/cache/redis"
	"github.com/nulzo/provider-engine/internal/store/sqlite"

	// Import probers to trigger init() registration
	_ "github.com/nulzo/provider-engine/internal/probe/anthropic"
	_ "github.com/nulzo/provider-engine/internal/probe/google"
	_ "github.com/nulzo/provider-engine/internal/probe/ollama"
	_ "github.com/nulzo/provider-engine/internal/probe/openai"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Initialize(logger.DefaultConfig())
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Initialize(logger.DefaultConfig())
	log := logger.Get()
	defer logger.Sync()

	cmd.CheckForUpdates()

	shutdownTracer, err := otel.InitTracer("provider-engine", log, os.Stdout)
	if err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	repo, err := sqlite.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer repo.Close()

	var cacheSvc cache.CacheService
	if cfg.Redis.Enabled {
		cacheSvc, err = redis.NewRedisCache(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
			cacheSvc = memory.NewMemoryCache()
		}
	} else {
		cacheSvc = memory.NewMemoryCache()
	}

	var source catalog.Source
	if cfg.Catalog.URL != "" {
		source = catalog.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.APIKey)
	} else {
		source = catalog.NewStaticSource(cfg.Providers)
	}

	probers := engine.BuildProbers(cfg.Providers, log)

	svc := engine.NewService(log, source, repo, cacheSvc, probers, engine.Options{
		HealthInterval:  cfg.Health.Interval,
		ProbeTimeout:    cfg.Health.ProbeTimeout,
		CatalogInterval: cfg.Catalog.RefreshInterval,
	})

	if err := svc.Start(context.Background()); err != nil {
		log.Fatal("Failed to start engine", zap.Error(err))
	}

	srv := server.New(cfg, log, svc)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("Starting provider engine", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	svc.Stop()

	if err := shutdownTracer(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
}
