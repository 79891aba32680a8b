package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Content types of the documents the service archives
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FileMetadata represents metadata about a stored file
type FileMetadata struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// StoreOptions provides options for storing files
type StoreOptions struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Overwrite   bool              `json:"overwrite,omitempty"`
}

// FileStorage archives rendered documents under slash-separated keys
type FileStorage interface {
	// Store saves data under key. Without Overwrite an existing key is an error.
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	// Retrieve gets a file by its storage key
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes a file by its storage key
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata returns metadata for a file
	GetMetadata(ctx context.Context, key string) (*FileMetadata, error)

	// List returns the files whose key starts with prefix, sorted by key
	List(ctx context.Context, prefix string) ([]FileMetadata, error)

	// Close cleans up any resources used by the storage implementation
	Close() error
}

// InvoicePDFKey is where the rendered PDF of a document is archived
func InvoicePDFKey(number string) string {
	return path.Join("invoices", sanitizeName(number)+".pdf")
}

// ReportKey is where an exported workbook is archived
func ReportKey(name string) string {
	return path.Join("reports", sanitizeName(name)+".xlsx")
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// ValidateKey rejects empty keys, absolute keys and keys escaping the root
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return ErrInvalidKey
		}
	}
	return nil
}

func (m FileMetadata) String() string {
	return fmt.Sprintf("%s (%d bytes, %s)", m.Key, m.Size, m.ContentType)
}
