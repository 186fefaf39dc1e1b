package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FSStore struct { // implements Store
	dir  string
	base string
}

func NewFSStore(dir, publicBaseURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating media directory: %w", err)
	}
	return &FSStore{dir: dir, base: publicBaseURL}, nil
}

// Dir returns the root the store writes under, for static file serving.
func (s *FSStore) Dir() string {
	return s.dir
}

func (s *FSStore) Upload(_ context.Context, key string, _ string, data []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return publicURL(s.base, key), nil
}

func (s *FSStore) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve joins key under the media root and rejects escapes.
func (s *FSStore) resolve(key string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid media key: %s", key)
	}
	return path, nil
}
