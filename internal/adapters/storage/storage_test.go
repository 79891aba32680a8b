package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func newLocal(t *testing.T) (FileStorage, func()) {
	tempDir, err := os.MkdirTemp("", "storage_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	s, err := NewLocalFileStorage(tempDir)
	if err != nil {
		t.Fatalf("NewLocalFileStorage() failed: %v", err)
	}
	return s, func() { os.RemoveAll(tempDir) }
}

func newMemory(t *testing.T) (FileStorage, func()) {
	return NewMemoryFileStorage(), func() {}
}

func TestFileStorage_Implementations(t *testing.T) {
	impls := []struct {
		name string
		new  func(t *testing.T) (FileStorage, func())
	}{
		{"local", newLocal},
		{"memory", newMemory},
	}

	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			s, cleanup := impl.new(t)
			defer cleanup()
			ctx := context.Background()

			key := InvoicePDFKey("PSM-2025-01-27-001")
			opts := &StoreOptions{ContentType: ContentTypePDF, Metadata: map[string]string{"invoice_id": "abc"}}

			if err := s.Store(ctx, key, []byte("%PDF-1.3"), opts); err != nil {
				t.Fatalf("Store() failed: %v", err)
			}
			if err := s.Store(ctx, key, []byte("again"), &StoreOptions{}); !IsAlreadyExists(err) {
				t.Errorf("Store() without overwrite error = %v, want already exists", err)
			}
			if err := s.Store(ctx, key, []byte("%PDF-1.4"), &StoreOptions{ContentType: ContentTypePDF, Overwrite: true}); err != nil {
				t.Errorf("Store() with overwrite failed: %v", err)
			}

			data, err := s.Retrieve(ctx, key)
			if err != nil || string(data) != "%PDF-1.4" {
				t.Errorf("Retrieve() = %q, %v", data, err)
			}

			meta, err := s.GetMetadata(ctx, key)
			if err != nil {
				t.Fatalf("GetMetadata() failed: %v", err)
			}
			if meta.ContentType != ContentTypePDF || meta.Size != 8 {
				t.Errorf("GetMetadata() = %s", meta)
			}

			if err := s.Store(ctx, ReportKey("gst-2025-01"), []byte("xlsx"), nil); err != nil {
				t.Fatalf("Store() report failed: %v", err)
			}

			invoices, err := s.List(ctx, "invoices/")
			if err != nil || len(invoices) != 1 || invoices[0].Key != key {
				t.Errorf("List(invoices/) = %v, %v", invoices, err)
			}
			all, err := s.List(ctx, "")
			if err != nil || len(all) != 2 {
				t.Errorf("List() = %d files, %v, want 2", len(all), err)
			}

			if err := s.Delete(ctx, key); err != nil {
				t.Errorf("Delete() failed: %v", err)
			}
			if ok, _ := s.Exists(ctx, key); ok {
				t.Error("Exists() after delete = true")
			}
			if _, err := s.Retrieve(ctx, key); !IsNotFound(err) {
				t.Errorf("Retrieve() after delete error = %v, want not found", err)
			}
			if err := s.Delete(ctx, key); !IsNotFound(err) {
				t.Errorf("Delete() twice error = %v, want not found", err)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"invoices/a.pdf", true},
		{"", false},
		{"/etc/passwd", false},
		{"invoices/../../secret", false},
		{"invoices//a.pdf", false},
		{`invoices\a.pdf`, false},
	}

	for _, tt := range tests {
		err := ValidateKey(tt.key)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateKey(%q) error = %v, want valid=%v", tt.key, err, tt.valid)
		}
	}

	if got := InvoicePDFKey("RET/2025 01"); got != "invoices/RET_2025_01.pdf" {
		t.Errorf("InvoicePDFKey() = %s", got)
	}
}

type flakyStorage struct {
	*MemoryFileStorage
	failures int
	calls    int
}

func (f *flakyStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	f.calls++
	if f.calls <= f.failures {
		return NewStorageError("Store", key, ErrStorageUnavailable, true)
	}
	return f.MemoryFileStorage.Store(ctx, key, data, opts)
}

func TestRetryableFileStorage(t *testing.T) {
	config := &RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}
	ctx := context.Background()

	flaky := &flakyStorage{MemoryFileStorage: NewMemoryFileStorage(), failures: 2}
	s := NewRetryableFileStorage(flaky, config, testLogger())
	if err := s.Store(ctx, "reports/a.xlsx", []byte("x"), nil); err != nil {
		t.Fatalf("Store() should succeed on the third attempt: %v", err)
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls)
	}

	broken := &flakyStorage{MemoryFileStorage: NewMemoryFileStorage(), failures: 10}
	s = NewRetryableFileStorage(broken, config, testLogger())
	if err := s.Store(ctx, "reports/a.xlsx", []byte("x"), nil); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Store() error = %v, want unavailable", err)
	}
	if broken.calls != 3 {
		t.Errorf("calls = %d, want 3", broken.calls)
	}

	// not-found is final
	s = NewRetryableFileStorage(NewMemoryFileStorage(), config, testLogger())
	if _, err := s.Retrieve(ctx, "missing.pdf"); !IsNotFound(err) {
		t.Errorf("Retrieve() error = %v, want not found", err)
	}
}

func TestNew(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "storage_factory_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tests := []struct {
		name    string
		config  *StorageConfig
		wantErr bool
	}{
		{"nil config", nil, true},
		{"local", &StorageConfig{Type: "local", BasePath: tempDir}, false},
		{"memory with retry", &StorageConfig{Type: "MEMORY", Retry: DefaultRetryConfig()}, false},
		{"s3", &StorageConfig{Type: "s3"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.config, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
