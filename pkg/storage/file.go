package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileMedium holds one store document in a single JSON file.
type FileMedium struct {
	path string
}

func NewFileMedium(path string) *FileMedium {
	return &FileMedium{path: path}
}

func (m *FileMedium) Load() ([]byte, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", m.path, err)
	}
	return data, nil
}

func (m *FileMedium) Store(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("store document %s: %w", m.path, err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("store document %s: %w", m.path, err)
	}
	return nil
}

var _ Medium = (*FileMedium)(nil)
