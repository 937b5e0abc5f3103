package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per user in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("portfolio directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create portfolio directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(userID string) (string, error) {
	id, err := normalizeUserID(userID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Load returns the entries of a user. A user without a file has none.
func (s *FileStore) Load(ctx context.Context, userID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read portfolio: %w", err)
	}

	entries := []Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio %s: %w", path, err)
	}
	return entries, nil
}

// Save replaces the entries of a user. The file is written to a temporary
// file first and renamed into place.
func (s *FileStore) Save(ctx context.Context, userID string, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(userID)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary portfolio file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write portfolio: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync portfolio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close portfolio: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace portfolio: %w", err)
	}
	return nil
}
