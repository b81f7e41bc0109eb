package store

import (
	"context"
	"fmt"
	"os"
)

// FileStore reads the bundle from a single JSON file on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read bundle file: %w", err)
	}
	return data, nil
}

func (s *FileStore) Describe() string {
	return fmt.Sprintf("file:%s", s.path)
}
