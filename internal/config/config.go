package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port               string
	LogLevel           string
	RateLimitPerMinute int

	// AI advice
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration
	AICacheTTL   time.Duration
	AICacheSize  int

	// Settings storage
	SettingsBackend string
	SettingsFile    string
	SQLiteDBPath    string

	// AMQP events, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

var validSettingsBackends = []string{"file", "sqlite"}

func Load() *Config {
	return &Config{
		Port:               getEnv("BUDGETER_PORT", "5002"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AITimeout:    getEnvDuration("AI_TIMEOUT", 15*time.Second),
		AICacheTTL:   getEnvDuration("AI_CACHE_TTL", 10*time.Minute),
		AICacheSize:  getEnvInt("AI_CACHE_SIZE", 100),

		SettingsBackend: getEnv("SETTINGS_BACKEND", "file"),
		SettingsFile:    getEnv("SETTINGS_FILE", "data.json"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/budgeter.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgeter"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_computed"),
	}
}

// AIEnabled reports whether a Gemini key is configured.
func (c *Config) AIEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// Validate collects every problem into one error.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if c.AITimeout < time.Second || c.AITimeout > 2*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid AI timeout %v: must be between 1s and 2m", c.AITimeout))
	}
	if c.AICacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid AI cache TTL %v: must not be negative", c.AICacheTTL))
	}
	if c.AICacheSize < 0 || c.AICacheSize > 10000 {
		errs = append(errs, fmt.Sprintf("invalid AI cache size %d: must be between 0 and 10000", c.AICacheSize))
	}
	if c.AIEnabled() && strings.TrimSpace(c.GeminiModel) == "" {
		errs = append(errs, "Gemini model cannot be empty when GEMINI_API_KEY is set")
	}

	if !slices.Contains(validSettingsBackends, c.SettingsBackend) {
		errs = append(errs, fmt.Sprintf("invalid settings backend '%s': must be one of %v", c.SettingsBackend, validSettingsBackends))
	}
	if c.SettingsBackend == "file" && c.SettingsFile == "" {
		errs = append(errs, "settings file path cannot be empty when using file backend")
	}
	if c.SettingsBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
