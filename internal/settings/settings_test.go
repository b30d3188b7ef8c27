package settings

import (
	"context"
	"path/filepath"
	"testing"

	"budgeter/internal/config"
)

func TestFactoryCreate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"file", Config{Type: FileBackend, FilePath: filepath.Join(dir, "data.json")}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "budgeter.db")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewFactory(nil).Create(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if res.Cleanup != nil {
				defer res.Cleanup()
			}
			if res.Backend != tt.cfg.Type {
				t.Fatalf("backend = %s", res.Backend)
			}

			ctx := context.Background()
			if err := res.Store.Save(ctx, []byte(`{"k":"v"}`)); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := res.Store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if string(got) != `{"k":"v"}` && string(got) != "{\n    \"k\": \"v\"\n}" {
				t.Fatalf("Load = %s", got)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{Type: "mongo"},
		{Type: FileBackend},
		{Type: SQLiteBackend},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
	if _, err := NewFactory(nil).Create(context.Background(), Config{Type: "memory"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{SettingsBackend: "sqlite", SQLiteDBPath: "x.db", SettingsFile: "data.json"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
