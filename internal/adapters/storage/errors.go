package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrFileNotFound       = errors.New("document not found")
	ErrFileAlreadyExists  = errors.New("document already archived")
	ErrInvalidKey         = errors.New("invalid document key")
	ErrStorageUnavailable = errors.New("document store unavailable")
)

// StorageError records the failed operation and key. Retryable errors are
// attempted again by RetryableFileStorage.
type StorageError struct {
	Op        string
	Key       string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err with the operation and key
func NewStorageError(op, key string, err error, retryable bool) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err, Retryable: retryable}
}

// IsNotFound reports a missing document
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsAlreadyExists reports a Store without Overwrite onto an existing key
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrFileAlreadyExists)
}

// IsRetryable reports whether another attempt may succeed. A cancelled
// context never is.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Retryable
	}
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
