package storage

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig configures retry behavior for storage operations
type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" mapstructure:"max_attempts"`
	InitialDelay  time.Duration `json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay" mapstructure:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor" mapstructure:"backoff_factor"`
	JitterEnabled bool          `json:"jitter_enabled" mapstructure:"jitter_enabled"`
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// WithRetry runs op until it succeeds, fails with a non-retryable error, or
// the attempts run out
func WithRetry(ctx context.Context, config *RetryConfig, op RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt >= config.MaxAttempts || !IsRetryable(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.calculateDelay(attempt)):
		}
	}

	return lastErr
}

// calculateDelay is initial_delay * backoff_factor^(attempt-1), capped at
// MaxDelay, plus up to 10% jitter
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))

	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.JitterEnabled {
		delay += rand.Float64() * 0.1 * delay
	}

	return time.Duration(delay)
}

// RetryableFileStorage wraps a FileStorage implementation with retry logic
type RetryableFileStorage struct {
	storage FileStorage
	config  *RetryConfig
	logger  *logrus.Logger
}

// NewRetryableFileStorage creates a new RetryableFileStorage
func NewRetryableFileStorage(storage FileStorage, config *RetryConfig, logger *logrus.Logger) *RetryableFileStorage {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &RetryableFileStorage{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

func (r *RetryableFileStorage) do(ctx context.Context, op, key string, fn RetryableOperation) error {
	attempts := 0
	err := WithRetry(ctx, r.config, func(ctx context.Context) error {
		attempts++
		return fn(ctx)
	})
	if err != nil && attempts > 1 {
		r.logger.WithFields(logrus.Fields{
			"operation": op,
			"key":       key,
			"attempts":  attempts,
		}).WithError(err).Warn("Storage operation failed after retries")
	}
	return err
}

// Store implements FileStorage.Store with retry logic
func (r *RetryableFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	return r.do(ctx, "store", key, func(ctx context.Context) error {
		return r.storage.Store(ctx, key, data, opts)
	})
}

// Retrieve implements FileStorage.Retrieve with retry logic
func (r *RetryableFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.do(ctx, "retrieve", key, func(ctx context.Context) error {
		var err error
		data, err = r.storage.Retrieve(ctx, key)
		return err
	})
	return data, err
}

// Delete implements FileStorage.Delete with retry logic
func (r *RetryableFileStorage) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func(ctx context.Context) error {
		return r.storage.Delete(ctx, key)
	})
}

// Exists implements FileStorage.Exists with retry logic
func (r *RetryableFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.do(ctx, "exists", key, func(ctx context.Context) error {
		var err error
		exists, err = r.storage.Exists(ctx, key)
		return err
	})
	return exists, err
}

// GetMetadata implements FileStorage.GetMetadata with retry logic
func (r *RetryableFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	var meta *FileMetadata
	err := r.do(ctx, "get_metadata", key, func(ctx context.Context) error {
		var err error
		meta, err = r.storage.GetMetadata(ctx, key)
		return err
	})
	return meta, err
}

// List implements FileStorage.List with retry logic
func (r *RetryableFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	var files []FileMetadata
	err := r.do(ctx, "list", prefix, func(ctx context.Context) error {
		var err error
		files, err = r.storage.List(ctx, prefix)
		return err
	})
	return files, err
}

// Close implements FileStorage.Close
func (r *RetryableFileStorage) Close() error {
	return r.storage.Close()
}
