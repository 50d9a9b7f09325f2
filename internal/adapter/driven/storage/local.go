package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
)

var _ repository.ArtifactStore = (*LocalStore)(nil)

// LocalStore writes artifacts into a directory on disk.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore stores under dir, or the working directory when dir is empty.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir, now: time.Now}
}

// Save writes blob as <stem>_<YYYYMMDD_HHMMSS>.<ext> and returns the absolute path.
func (s *LocalStore) Save(ctx context.Context, filename, _ string, blob []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	path, err := s.generateFilename(base, ext)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("%w: error writing %s: %v", types.ErrStorage, path, err)
	}
	return path, nil
}

func (s *LocalStore) generateFilename(base, ext string) (string, error) {
	dir := s.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: error creating output directory '%s': %v", types.ErrStorage, dir, err)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	timestamp := s.now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s", base, timestamp)
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(dir, name), nil
}
