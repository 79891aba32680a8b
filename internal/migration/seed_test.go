package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/database"
	"gst-invoice-api/internal/repositories/sqlite"
	"gst-invoice-api/internal/services"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func writeSeed(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestSeedImporter_Import(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "seed_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	db, err := database.InitializeDatabase(filepath.Join(tempDir, "test.db"), testLogger())
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	repos := sqlite.NewSQLiteRepositoryManager(db, testLogger())
	defer repos.Close()

	svc, err := services.NewServiceContainer(repos, nil, nil, testLogger())
	if err != nil {
		t.Fatalf("NewServiceContainer() failed: %v", err)
	}

	seedDir := filepath.Join(tempDir, "seed")
	if err := os.MkdirAll(seedDir, 0755); err != nil {
		t.Fatalf("Failed to create seed dir: %v", err)
	}

	importer := NewSeedImporter(svc, seedDir, testLogger())
	if found, _ := importer.CheckSeedFilesExist(); found {
		t.Error("CheckSeedFilesExist() should be false for an empty directory")
	}

	writeSeed(t, seedDir, ProductsFile, `[
		{"name": "Dosa", "unit": "packet", "rate": 25, "gst_rate": 5, "hsn_code": "2106"},
		{"name": "Halwa", "unit": "kg", "rate": 300, "gst_rate": 7}
	]`)
	writeSeed(t, seedDir, CustomersFile, `[
		{"name": "Udupi Grand", "gstin": "29ABCDE1234F1Z5"}
	]`)

	found, files := importer.CheckSeedFilesExist()
	if !found || len(files) != 2 {
		t.Errorf("CheckSeedFilesExist() = %v, %v", found, files)
	}

	ctx := context.Background()
	result, err := importer.Import(ctx)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if result.ProductsImported != 1 || result.CustomersImported != 1 || result.VendorsImported != 0 {
		t.Errorf("result = %+v", result)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 for the invalid slab", result.Skipped)
	}

	again, err := importer.Import(ctx)
	if err != nil {
		t.Fatalf("second Import() failed: %v", err)
	}
	if again.ProductsImported != 0 {
		t.Errorf("second import created %d products, want 0", again.ProductsImported)
	}

	writeSeed(t, seedDir, VendorsFile, `{not json`)
	if _, err := importer.Import(ctx); err == nil {
		t.Error("expected error for a malformed seed file")
	}
}
