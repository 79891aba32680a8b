package storage

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const metadataSuffix = ".meta.json"

// LocalFileStorage keeps documents under a directory on the local filesystem.
// Content type and metadata live in a JSON sidecar next to each file.
type LocalFileStorage struct {
	basePath string
}

type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewLocalFileStorage creates the base directory if needed
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err, false)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("NewLocalFileStorage", "", err, false)
	}

	return &LocalFileStorage{basePath: absPath}, nil
}

// BasePath returns the absolute root directory
func (l *LocalFileStorage) BasePath() string {
	return l.basePath
}

// Store writes to a temp file and renames it into place
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := ValidateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	filePath := l.filePath(key)
	if !opts.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return NewStorageError("Store", key, err, true)
	}

	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return NewStorageError("Store", key, err, true)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return NewStorageError("Store", key, err, true)
	}

	meta, err := json.Marshal(sidecar{ContentType: opts.ContentType, Metadata: opts.Metadata})
	if err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if err := os.WriteFile(filePath+metadataSuffix, meta, 0644); err != nil {
		return NewStorageError("Store", key, err, true)
	}

	return nil
}

// Retrieve implements FileStorage.Retrieve
func (l *LocalFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}

	data, err := os.ReadFile(l.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("Retrieve", key, err, true)
	}

	return data, nil
}

// Delete implements FileStorage.Delete
func (l *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return NewStorageError("Delete", key, err, false)
	}

	filePath := l.filePath(key)
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return NewStorageError("Delete", key, ErrFileNotFound, false)
		}
		return NewStorageError("Delete", key, err, true)
	}
	os.Remove(filePath + metadataSuffix)

	return nil
}

// Exists implements FileStorage.Exists
func (l *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	_, err := os.Stat(l.filePath(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, NewStorageError("Exists", key, err, true)
}

// GetMetadata implements FileStorage.GetMetadata
func (l *LocalFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	if err := ValidateKey(key); err != nil {
		return nil, NewStorageError("GetMetadata", key, err, false)
	}

	info, err := os.Stat(l.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStorageError("GetMetadata", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("GetMetadata", key, err, true)
	}

	return l.metadataFor(key, info), nil
}

// List walks the base directory and returns files under prefix
func (l *LocalFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	files := []FileMetadata{}

	err := filepath.WalkDir(l.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metadataSuffix) || strings.HasSuffix(p, ".tmp") {
			return nil
		}

		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, *l.metadataFor(key, info))
		return nil
	})
	if err != nil {
		return nil, NewStorageError("List", prefix, err, true)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Close implements FileStorage.Close
func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) filePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

func (l *LocalFileStorage) metadataFor(key string, info os.FileInfo) *FileMetadata {
	meta := &FileMetadata{
		Key:          key,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}

	raw, err := os.ReadFile(l.filePath(key) + metadataSuffix)
	if err == nil {
		var sc sidecar
		if json.Unmarshal(raw, &sc) == nil {
			meta.ContentType = sc.ContentType
			meta.Metadata = sc.Metadata
		}
	}
	return meta
}
