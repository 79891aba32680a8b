package storage

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// StorageType represents the type of storage implementation
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeMemory StorageType = "memory"
)

// StorageConfig represents configuration for storage providers
type StorageConfig struct {
	Type     string       `json:"type" mapstructure:"type"`
	BasePath string       `json:"base_path" mapstructure:"base_path"`
	Retry    *RetryConfig `json:"retry,omitempty" mapstructure:"retry"`
}

// New creates the configured storage, wrapped with retry logic unless
// Retry is nil
func New(config *StorageConfig, logger *logrus.Logger) (FileStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	var storage FileStorage
	switch StorageType(strings.ToLower(config.Type)) {
	case StorageTypeLocal, "":
		basePath := config.BasePath
		if basePath == "" {
			basePath = "./data/documents"
		}
		local, err := NewLocalFileStorage(basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		storage = local
	case StorageTypeMemory:
		storage = NewMemoryFileStorage()
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}

	if config.Retry != nil {
		storage = NewRetryableFileStorage(storage, config.Retry, logger)
	}

	return storage, nil
}
