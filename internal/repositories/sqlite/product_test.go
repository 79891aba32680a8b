package sqlite

import (
	"context"
	"testing"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

func TestProductRepository_CRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	details, ok := gst.GetProductDetails("dosa")
	if !ok {
		t.Fatal("GetProductDetails(dosa) found nothing")
	}
	product := models.NewProductFromCatalog(*details)
	product.Category = "batter"
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	byName, err := repo.GetByName(ctx, "DOSA")
	if err != nil {
		t.Fatalf("GetByName() failed: %v", err)
	}
	if byName.ID != product.ID || byName.GSTRate != details.GSTRate {
		t.Errorf("GetByName() = %+v, want the created product", byName)
	}

	dup := models.NewProduct("dosa", "kg", 60, 5)
	if err := repo.Create(ctx, dup); !repositories.IsDuplicate(err) {
		t.Errorf("Create() with same name error = %v, want duplicate", err)
	}

	bad := models.NewProduct("Ghee", "kg", 500, 7)
	if err := repo.Create(ctx, bad); !repositories.IsValidation(err) {
		t.Errorf("Create() with 7%% GST error = %v, want validation", err)
	}

	product.Rate = 55
	product.Active = false
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	active, err := repo.GetActiveProducts(ctx)
	if err != nil {
		t.Fatalf("GetActiveProducts() failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("GetActiveProducts() returned %d products, want 0", len(active))
	}

	retrieved, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Rate != 55 || retrieved.Active {
		t.Errorf("Updated product = %+v", retrieved)
	}
}

func TestProductRepository_Queries(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	products := []*models.Product{
		models.NewProduct("Paneer", "kg", 300, 12),
		models.NewProduct("Idli Batter", "kg", 45, 5),
		models.NewProduct("Curd", "kg", 60, 0),
	}
	products[0].Category = "dairy"
	products[0].HSNCode = "0406"
	products[2].Category = "dairy"

	for _, p := range products {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) failed: %v", p.Name, err)
		}
	}

	tests := []struct {
		name string
		run  func() ([]*models.Product, error)
		want int
	}{
		{"by category", func() ([]*models.Product, error) { return repo.GetByCategory(ctx, "dairy") }, 2},
		{"by gst rate", func() ([]*models.Product, error) { return repo.GetByGSTRate(ctx, 5) }, 1},
		{"search hsn", func() ([]*models.Product, error) { return repo.Search(ctx, "0406", 10) }, 1},
		{"search name", func() ([]*models.Product, error) { return repo.Search(ctx, "batter", 10) }, 1},
		{"search escapes wildcard", func() ([]*models.Product, error) { return repo.Search(ctx, "%", 10) }, 0},
		{"list filter", func() ([]*models.Product, error) {
			return repo.List(ctx, map[string]interface{}{"category": "dairy", "gst_rate": 0})
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d products, want %d", len(got), tt.want)
			}
		})
	}

	exists, err := repo.Exists(ctx, products[0].ID)
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v, want true", exists, err)
	}
}

func TestVendorRepository_UniqueCode(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewVendorRepository(db, testLogger())
	ctx := context.Background()

	first := models.NewVendor("Nandini Dairy")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	second := models.NewVendor("Akshaya Mills")
	second.Code = first.Code
	if err := repo.Create(ctx, second); !repositories.IsDuplicate(err) {
		t.Fatalf("Create() with taken code error = %v, want duplicate", err)
	}

	second.Code = first.Code + "X"
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create() after new code failed: %v", err)
	}

	byCode, err := repo.GetByCode(ctx, first.Code)
	if err != nil {
		t.Fatalf("GetByCode() failed: %v", err)
	}
	if byCode.Name != "Nandini Dairy" {
		t.Errorf("GetByCode() name = %s, want Nandini Dairy", byCode.Name)
	}

	found, err := repo.Search(ctx, "mills", 0)
	if err != nil || len(found) != 1 {
		t.Errorf("Search() = %d results, %v, want 1", len(found), err)
	}
}
