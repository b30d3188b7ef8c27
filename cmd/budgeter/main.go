package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"budgeter/internal/cache"
	"budgeter/internal/cli"
	"budgeter/internal/history"
	apphttp "budgeter/internal/http"
	"budgeter/internal/log"
	"budgeter/internal/services"
	"budgeter/internal/settings"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settingsCfg, err := settings.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid settings configuration", log.FieldError, err)
		os.Exit(1)
	}
	store, err := settings.NewFactory(logger.WithComponent(log.ComponentSettings).Logger).Create(ctx, settingsCfg)
	if err != nil {
		logger.Error("Failed to initialize settings store", log.FieldError, err, "backend", settingsCfg.Type)
		os.Exit(1)
	}
	defer func() {
		if store.Cleanup != nil {
			if err := store.Cleanup(); err != nil {
				logger.Error("Failed to close settings store", log.FieldError, err)
			}
		}
	}()

	advisor, replies := cli.InitAdvisor(ctx, cfg, logger)
	cleanup := cache.NewManager()

	events := cli.InitEvents(ctx, cfg, logger)
	var publisher services.EventPublisher
	if events != nil {
		publisher = events
		defer events.Close()
	}

	deps := apphttp.Deps{
		Budget:             services.NewBudgetService(history.NewLog(), publisher),
		Advisor:            advisor,
		Settings:           store.Store,
		Logger:             logger,
		SettingsBackend:    string(store.Backend),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Cleanup:            cleanup,
	}
	if replies != nil {
		cleanup.Register(replies)
		cleanup.StartCleanup(cfg.AICacheTTL)
		deps.AdviceCache = replies
	}
	if events != nil {
		deps.Events = events
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting budgeter server",
		"port", cfg.Port,
		"settings_backend", store.Backend,
		"ai_enabled", advisor.Enabled(),
		"events_enabled", events != nil,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
