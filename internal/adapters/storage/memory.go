package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFile struct {
	data []byte
	meta FileMetadata
}

// MemoryFileStorage keeps documents in process memory. It backs the
// stateless Lambda deployment and tests.
type MemoryFileStorage struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

// NewMemoryFileStorage creates an empty in-memory storage
func NewMemoryFileStorage() *MemoryFileStorage {
	return &MemoryFileStorage{files: make(map[string]memoryFile)}
}

// Store implements FileStorage.Store
func (m *MemoryFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := ValidateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; ok && !opts.Overwrite {
		return NewStorageError("Store", key, ErrFileAlreadyExists, false)
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	var metadata map[string]string
	if len(opts.Metadata) > 0 {
		metadata = make(map[string]string, len(opts.Metadata))
		for k, v := range opts.Metadata {
			metadata[k] = v
		}
	}

	m.files[key] = memoryFile{
		data: buf,
		meta: FileMetadata{
			Key:          key,
			Size:         int64(len(buf)),
			ContentType:  opts.ContentType,
			LastModified: time.Now(),
			Metadata:     metadata,
		},
	}
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (m *MemoryFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
	}
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out, nil
}

// Delete implements FileStorage.Delete
func (m *MemoryFileStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; !ok {
		return NewStorageError("Delete", key, ErrFileNotFound, false)
	}
	delete(m.files, key)
	return nil
}

// Exists implements FileStorage.Exists
func (m *MemoryFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[key]
	return ok, nil
}

// GetMetadata implements FileStorage.GetMetadata
func (m *MemoryFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("GetMetadata", key, ErrFileNotFound, false)
	}
	meta := f.meta
	return &meta, nil
}

// List implements FileStorage.List
func (m *MemoryFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := []FileMetadata{}
	for key, f := range m.files {
		if strings.HasPrefix(key, prefix) {
			files = append(files, f.meta)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Close implements FileStorage.Close
func (m *MemoryFileStorage) Close() error {
	return nil
}
