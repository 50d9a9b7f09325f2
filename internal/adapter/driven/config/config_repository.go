package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

var _ repository.ConfigRepository = (*ConfigRepositoryImpl)(nil)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() *ConfigRepositoryImpl {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Campos ausentes mantêm os valores de types.DefaultConfig.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileData, ext, err := readInputFile(filePath)
	if err != nil {
		return nil, err
	}

	var config types.Config

	switch ext {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: config file %s", types.ErrUnsupportedFormat, ext)
	}

	config.ApplyDefaults()
	return &config, nil
}

// LoadQRBatchFile lê uma lista de requisições de QR em YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadQRBatchFile(filePath string) ([]entity.QRRequest, error) {
	var reqs []entity.QRRequest
	if err := decodeList(filePath, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// LoadColumnsFile lê a definição de colunas de um relatório em YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadColumnsFile(filePath string) ([]entity.Column, error) {
	var cols []entity.Column
	if err := decodeList(filePath, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// LoadRowsFile lê as linhas a exportar. Números em JSON chegam como
// json.Number para não perder precisão.
func (r *ConfigRepositoryImpl) LoadRowsFile(filePath string) ([]entity.Row, error) {
	var rows []entity.Row
	if err := decodeList(filePath, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func decodeList(filePath string, out any) error {
	fileData, ext, err := readInputFile(filePath)
	if err != nil {
		return err
	}

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, out); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(fileData))
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("%w: input file %s", types.ErrUnsupportedFormat, ext)
	}
	return nil
}

func readInputFile(filePath string) ([]byte, string, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("error accessing file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("error reading file: %w", err)
	}
	return fileData, strings.ToLower(filepath.Ext(filePath)), nil
}
