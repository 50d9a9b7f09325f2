package repository

import "context"

// ArtifactStore persists generated artifacts and returns where they landed.
type ArtifactStore interface {
	Save(ctx context.Context, filename, mimeType string, blob []byte) (string, error)
}
