package repository

import (
	"context"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
)

// QRRepository composes branded QR codes.
type QRRepository interface {
	Generate(ctx context.Context, req entity.QRRequest) (entity.QRResult, error)
	// BatchGenerate keeps output order equal to input order; one failure never aborts the rest.
	BatchGenerate(ctx context.Context, reqs []entity.QRRequest) []entity.QRBatchResult
}

// LogoFetcher loads the raw bytes behind a logo source.
type LogoFetcher interface {
	Fetch(ctx context.Context, src entity.LogoSource) ([]byte, error)
}
