package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps each key in its own JSON file under basePath.
type FileStore struct {
	basePath string
}

type fileEntry struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFileStore creates a FileStore and ensures the base directory exists.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

// sanitizeKey makes a key safe for filenames.
func sanitizeKey(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "-").Replace(name)
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.basePath, sanitizeKey(name)+".json")
}

func (s *FileStore) ReadKey(_ context.Context, name string) (string, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read state file: %w", err)
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal state file: %w", err)
	}
	return e.Value, true, nil
}

// WriteKey replaces the file atomically so a crash never leaves half a value.
func (s *FileStore) WriteKey(_ context.Context, name, value string) error {
	data, err := json.MarshalIndent(fileEntry{Value: value, UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	tmp, err := os.CreateTemp(s.basePath, ".state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *FileStore) RemoveKey(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}
