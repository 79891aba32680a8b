package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"gst-invoice-api/internal/database"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	tempDir, err := os.MkdirTemp("", "sqlite_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	db, err := database.InitializeDatabase(filepath.Join(tempDir, "test.db"), testLogger())
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Failed to initialize database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tempDir)
	}

	return db, cleanup
}

func stringPtr(s string) *string {
	return &s
}

func TestCustomerRepository_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	customer := models.NewCustomer("Annapoorna Hotel")
	customer.GSTIN = stringPtr("29ABCDE1234F1Z5")
	customer.Phone = stringPtr("9876543210")

	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if retrieved.Name != customer.Name {
		t.Errorf("Retrieved customer Name = %s, want %s", retrieved.Name, customer.Name)
	}
	if retrieved.GetStateCode() != "29" {
		t.Errorf("GetStateCode() = %s, want 29", retrieved.GetStateCode())
	}

	if err := repo.Create(ctx, customer); !repositories.IsDuplicate(err) {
		t.Errorf("Create() twice error = %v, want duplicate", err)
	}

	invalid := models.NewCustomer("")
	if err := repo.Create(ctx, invalid); !repositories.IsValidation(err) {
		t.Errorf("Create() with empty name error = %v, want validation", err)
	}
}

func TestCustomerRepository_GetByGSTIN(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	customer := models.NewCustomer("Sagar Caterers")
	customer.GSTIN = stringPtr("33AAAPL1234C1ZV")
	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByGSTIN(ctx, "33aaapl1234c1zv")
	if err != nil {
		t.Fatalf("GetByGSTIN() failed: %v", err)
	}
	if retrieved.ID != customer.ID {
		t.Errorf("GetByGSTIN() ID = %s, want %s", retrieved.ID, customer.ID)
	}

	if _, err := repo.GetByGSTIN(ctx, "27AAAPL1234C1ZV"); !repositories.IsNotFound(err) {
		t.Errorf("GetByGSTIN() unknown error = %v, want not found", err)
	}
}

func TestCustomerRepository_ListAndSearch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	for _, name := range []string{"Udupi Grand", "Mavalli Tiffin Rooms", "Vidyarthi Bhavan"} {
		c := models.NewCustomer(name)
		if name == "Udupi Grand" {
			c.StateCode = stringPtr("29")
		}
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
	}

	customers, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(customers) != 3 {
		t.Fatalf("List() returned %d customers, want 3", len(customers))
	}
	if customers[0].Name != "Mavalli Tiffin Rooms" {
		t.Errorf("List() first = %s, want alphabetical order", customers[0].Name)
	}

	filtered, err := repo.List(ctx, map[string]interface{}{"state_code": "29"})
	if err != nil {
		t.Fatalf("List() with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Udupi Grand" {
		t.Errorf("List() with filter = %v, want Udupi Grand only", filtered)
	}

	if _, err := repo.List(ctx, map[string]interface{}{"1=1; DROP TABLE customers; --": 1}); err == nil {
		t.Error("List() should reject unknown filter columns")
	}

	count, err := repo.Count(ctx, nil)
	if err != nil || count != 3 {
		t.Errorf("Count() = %d, %v, want 3", count, err)
	}

	found, err := repo.Search(ctx, "bhavan", 10)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("Search() returned %d customers, want 1", len(found))
	}

	empty, err := repo.Search(ctx, "  ", 10)
	if err != nil || len(empty) != 0 {
		t.Errorf("Search() blank = %v, %v, want empty", empty, err)
	}
}

func TestCustomerRepository_UpdateDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomerRepository(db, testLogger())
	ctx := context.Background()

	customer := models.NewCustomer("Brahmin's Coffee Bar")
	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	customer.Email = stringPtr("orders@coffeebar.in")
	if err := repo.Update(ctx, customer); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Email == nil || *retrieved.Email != "orders@coffeebar.in" {
		t.Errorf("Updated email = %v, want orders@coffeebar.in", retrieved.Email)
	}

	if err := repo.Delete(ctx, customer.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, customer.ID); !repositories.IsNotFound(err) {
		t.Errorf("GetByID() after delete error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, customer.ID); !repositories.IsNotFound(err) {
		t.Errorf("Delete() twice error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, ""); err == nil {
		t.Error("Delete() should reject an empty ID")
	}
}
