// Package settings persists the opaque settings document served by
// GET/POST /settings.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"budgeter/internal/config"
	"budgeter/internal/settings/file"
	"budgeter/internal/settings/sqlite"
)

// Store loads and saves one JSON document. Load returns `{}` when nothing has
// been saved yet. Failures wrap core.ErrCollaboratorUnavailable.
type Store interface {
	Load(ctx context.Context) (json.RawMessage, error)
	Save(ctx context.Context, blob json.RawMessage) error
}

type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

func (b BackendType) IsValid() bool {
	return b == FileBackend || b == SQLiteBackend
}

type Config struct {
	Type         BackendType
	FilePath     string
	SQLiteDBPath string
}

// FromAppConfig picks the settings fields out of the application config.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	c := Config{
		Type:         BackendType(cfg.SettingsBackend),
		FilePath:     cfg.SettingsFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Type {
	case FileBackend:
		if c.FilePath == "" {
			return fmt.Errorf("settings file path is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	default:
		return fmt.Errorf("invalid settings backend: %q", c.Type)
	}
	return nil
}

// Result is a ready store plus whatever must run at shutdown.
type Result struct {
	Store   Store
	Backend BackendType
	Cleanup func() error
}

type Factory interface {
	Create(ctx context.Context, cfg Config) (*Result, error)
}

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		store, err := sqlite.Open(ctx, cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite settings store: %w", err)
		}
		f.logger.Info("Initialized SQLite settings store", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Backend: cfg.Type, Cleanup: store.Close}, nil
	default:
		f.logger.Info("Initialized file settings store", "path", cfg.FilePath)
		return &Result{Store: file.New(cfg.FilePath), Backend: cfg.Type}, nil
	}
}
