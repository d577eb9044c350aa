package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"finboard/internal/assistant"
	"finboard/internal/auth"
	"finboard/internal/backend"
	"finboard/internal/cache"
	"finboard/internal/cli"
	apphttp "finboard/internal/http"
	applog "finboard/internal/log"
	"finboard/internal/services"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig("", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	caches := cache.NewManager()
	var dashboardCache cache.Cache[services.Dashboard]
	if cfg.CacheTTL > 0 {
		lru := cache.NewLRUCache[services.Dashboard](1, cfg.CacheTTL)
		caches.Register(lru)
		dashboardCache = lru
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Backend:   res.Backend,
		Auth:      auth.NewService(res.Auth, cfg.BcryptCost),
		Dashboard: services.NewDashboardService(res.Backend, dashboardCache),
		Assistant: assistant.NewConversation(res.Backend),
		Ready:     res.Ping,
		Caches:    caches,
		Logger:    logger,

		TrustedProxies: cfg.TrustedProxies,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting finboard server", "port", cfg.Port, "backend", cfg.DataBackend)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
