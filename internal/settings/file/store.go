// Package file stores the settings document as an indented JSON file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"budgeter/internal/core"
)

var emptyDocument = json.RawMessage(`{}`)

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(ctx context.Context) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyDocument, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w: %w", core.ErrCollaboratorUnavailable, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return emptyDocument, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("settings file %s is not valid JSON: %w", s.path, core.ErrCollaboratorUnavailable)
	}
	return json.RawMessage(data), nil
}

// Save replaces the document. The file is written next to the target and
// renamed into place so readers never see a partial write.
func (s *Store) Save(ctx context.Context, blob json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, blob, "", "    "); err != nil {
		return &core.ValidationError{Err: core.ErrMalformedRequest, Msg: "invalid JSON payload"}
	}
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(buf.Bytes()); err != nil {
		return fmt.Errorf("write settings file: %w: %w", core.ErrCollaboratorUnavailable, err)
	}
	return nil
}

func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
