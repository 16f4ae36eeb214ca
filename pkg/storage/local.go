package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes evidence under a base directory. The directory is served
// statically by the HTTP server, so the returned ref is a /uploads URL path.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create evidence folder: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}
	return "/uploads/" + path, nil
}
