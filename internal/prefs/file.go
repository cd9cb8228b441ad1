package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the theme in a small JSON file
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns DefaultTheme when the file does not exist yet
func (s *FileStore) Load(context.Context) (Theme, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTheme, nil
	}
	if err != nil {
		return DefaultTheme, err
	}
	var rec themeRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return DefaultTheme, err
	}
	return ParseTheme(string(rec.Theme)), nil
}

// Save writes the file atomically via a temp file in the same directory
func (s *FileStore) Save(_ context.Context, theme Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(themeRecord{Theme: theme})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".theme-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
