package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"budgeter/internal/core"
)

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data.json"))
	got, err := s.Load(context.Background())
	if err != nil || string(got) != "{}" {
		t.Fatalf("got %s, err=%v", got, err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	s := New(path)
	ctx := context.Background()

	if err := s.Save(ctx, []byte(`{"theme":"dark","categories":["Rent"]}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "{\n    \"theme\": \"dark\",\n    \"categories\": [\n        \"Rent\"\n    ]\n}\n"
	if string(raw) != want {
		t.Fatalf("file contents:\n%s\nwant:\n%s", raw, want)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != want[:len(want)-1] {
		t.Fatalf("Load = %s", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestSaveRejectsInvalidJSON(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data.json"))
	err := s.Save(context.Background(), []byte(`{"broken"`))
	if !errors.Is(err, core.ErrMalformedRequest) {
		t.Fatalf("expected malformed request, got %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path).Load(context.Background())
	if !errors.Is(err, core.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable, got %v", err)
	}
}

func TestSaveUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(filepath.Join(blocker, "data.json"))
	if err := s.Save(context.Background(), []byte(`{}`)); !errors.Is(err, core.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable, got %v", err)
	}
}
