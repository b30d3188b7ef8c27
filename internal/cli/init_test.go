package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"budgeter/internal/config"
	"budgeter/internal/log"
)

func testConfig() *config.Config {
	return &config.Config{
		GeminiModel: "gemini-1.5-flash",
		AITimeout:   time.Second,
		AICacheTTL:  time.Minute,
		AICacheSize: 10,
	}
}

func discardLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Output: io.Discard})
}

func TestInitAdvisorWithoutKey(t *testing.T) {
	a, replies := InitAdvisor(context.Background(), testConfig(), discardLogger())
	if a.Enabled() {
		t.Fatal("advisor should fall back without an API key")
	}
	if replies == nil {
		t.Fatal("expected reply cache")
	}
	if got := a.Advise(context.Background(), "x"); !got.Degraded {
		t.Fatalf("expected fallback reply, got %+v", got)
	}
}

func TestInitAdvisorWithKey(t *testing.T) {
	cfg := testConfig()
	cfg.GeminiAPIKey = "test-key"
	cfg.AICacheSize = 0

	a, replies := InitAdvisor(context.Background(), cfg, discardLogger())
	if !a.Enabled() {
		t.Fatal("advisor should use Gemini when a key is set")
	}
	if replies != nil {
		t.Fatal("cache should be disabled with size 0")
	}
}

func TestInitEventsDisabled(t *testing.T) {
	if c := InitEvents(context.Background(), testConfig(), discardLogger()); c != nil {
		t.Fatal("expected nil client without AMQP_URL")
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := SetupLogger("debug")
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug level should be enabled")
	}
	if slog.Default() != l.Logger {
		t.Fatal("logger should become the slog default")
	}
}
