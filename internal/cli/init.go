// Package cli holds the bootstrap steps shared by the budgeter binaries:
// logging, .env loading, config validation, collaborator wiring and
// graceful shutdown.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgeter/internal/advice"
	"budgeter/internal/advice/gemini"
	"budgeter/internal/amqp"
	"budgeter/internal/cache"
	"budgeter/internal/config"
	"budgeter/internal/log"
)

// SetupLogger builds the process logger at the given LOG_LEVEL and makes it
// the slog default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development; a missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig exits the process when the configuration is invalid.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.LogError(context.Background(), "Configuration validation failed", err, log.OpStartup, log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// InitAdvisor returns an Advisor backed by Gemini when GEMINI_API_KEY is set,
// otherwise one that always answers with the static fallback. The returned
// cache is nil when caching is disabled.
func InitAdvisor(ctx context.Context, cfg *config.Config, logger *log.Logger) (*advice.Advisor, *cache.LRUCache[string]) {
	logger = logger.WithComponent(log.ComponentAdvice)

	var replies *cache.LRUCache[string]
	if cfg.AICacheSize > 0 && cfg.AICacheTTL > 0 {
		replies = cache.NewLRUCache[string](cfg.AICacheSize, cfg.AICacheTTL)
		logger.WithComponent(log.ComponentCache).Debug("Advice reply cache enabled",
			"size", cfg.AICacheSize, "ttl", cfg.AICacheTTL)
	}
	opts := advice.Options{Timeout: cfg.AITimeout, Cache: replies}

	if !cfg.AIEnabled() {
		logger.Info("GEMINI_API_KEY not set, advice uses the static fallback")
		return advice.NewAdvisor(nil, opts), replies
	}

	client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("Failed to initialize Gemini client, advice uses the static fallback", log.FieldError, err)
		return advice.NewAdvisor(nil, opts), replies
	}
	logger.Info("Initialized Gemini advice provider", "model", client.Model(), "timeout", cfg.AITimeout)
	return advice.NewAdvisor(client, opts), replies
}

// InitEvents connects the budget event publisher. It returns nil when AMQP is
// not configured or the broker is unreachable; budgets are still served.
func InitEvents(ctx context.Context, cfg *config.Config, logger *log.Logger) *amqp.Client {
	logger = logger.WithComponent(log.ComponentAMQP)
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, budget events disabled")
		return nil
	}
	client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without budget events", log.FieldError, err)
		return nil
	}
	logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// GracefulShutdown returns a context cancelled on SIGINT/SIGTERM. After the
// signal, shutdown runs with a context bounded by timeout and done is closed
// once it returns.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, shutdown func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-ctx.Done()
		stop()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if shutdown != nil {
			shutdown(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached", "timeout", timeout)
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
