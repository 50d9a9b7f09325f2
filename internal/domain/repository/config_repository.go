package repository

import (
	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration and input files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	LoadQRBatchFile(filePath string) ([]entity.QRRequest, error)
	LoadColumnsFile(filePath string) ([]entity.Column, error)
	LoadRowsFile(filePath string) ([]entity.Row, error)
}
