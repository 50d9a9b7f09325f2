package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
)

// New picks the backend named in cfg. dir is only used by the local backend.
func New(ctx context.Context, cfg types.StorageConfig, dir string) (repository.ArtifactStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		return NewLocalStore(dir), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", types.ErrStorage, cfg.Backend)
	}
}
