// Package file stores each key as a file in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/MrSnakeDoc/linkvault/internal/storage"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// Store is a storage.Storage backed by a directory.
type Store struct {
	dir string
}

var _ storage.Storage = (*Store)(nil)

// New creates dir if needed and returns a store rooted at it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("file storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file storage: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("file storage: invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("file storage: read %s: %w", key, err)
	}
	return string(b), nil
}

// Set writes to a temp file in the same directory, syncs it, then renames
// it over the target so readers see either the old or the new value.
func (s *Store) Set(_ context.Context, key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("file storage: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0o600); err != nil {
		utils.Close(tmp)
		return fmt.Errorf("file storage: chmod: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		utils.Close(tmp)
		return fmt.Errorf("file storage: write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		utils.Close(tmp)
		return fmt.Errorf("file storage: sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file storage: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("file storage: rename %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
