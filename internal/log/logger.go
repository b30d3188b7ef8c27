// Package log wraps log/slog with component-tagged loggers and request
// scoped logging helpers.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger that tags every record with its component.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	attrs     []any
	component string
}

type Config struct {
	Level     slog.Level
	Component string
	// Format is "text" (default) or "json".
	Format  string
	Output  io.Writer
	Handler slog.Handler
}

func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Format:    "text",
		Output:    os.Stdout,
	}
}

func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stdout
		}
		opts := &slog.HandlerOptions{Level: config.Level}
		if strings.EqualFold(config.Format, "json") {
			handler = slog.NewJSONHandler(out, opts)
		} else {
			handler = slog.NewTextHandler(out, opts)
		}
	}
	if config.Component == "" {
		config.Component = ComponentApp
	}
	return build(slog.New(handler), nil, config.Component)
}

func build(base *slog.Logger, attrs []any, component string) *Logger {
	return &Logger{
		Logger:    base.With(attrs...).With(FieldComponent, component),
		base:      base,
		attrs:     attrs,
		component: component,
	}
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) With(args ...any) *Logger {
	attrs := append(append([]any(nil), l.attrs...), args...)
	return build(l.root(), attrs, l.component)
}

// WithComponent returns a child logger that reports a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return build(l.root(), l.attrs, component)
}

func (l *Logger) root() *slog.Logger {
	if l.base != nil {
		return l.base
	}
	return l.Logger
}

func (l *Logger) Component() string {
	return l.component
}

// SetDefault makes logger the process-wide slog default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// LogBudgetComputed records a successful /budget computation.
func (l *Logger) LogBudgetComputed(ctx context.Context, sequence int, paycheck string, categories int, remaining string) {
	fields := NewFields().
		WithBudget(sequence, paycheck, categories, remaining).
		WithOperation(OpCompute)
	l.InfoContext(ctx, "Budget computed", fields.ToSlice()...)
}

// LogError records err with its component and operation.
func (l *Logger) LogError(ctx context.Context, msg string, err error, operation, errorType string) {
	fields := NewFields().WithError(err).WithOperation(operation)
	fields[FieldErrorType] = errorType
	l.ErrorContext(ctx, msg, fields.ToSlice()...)
}
