package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/shopspring/decimal"
)

func TestStockRepository_LevelsAndMovements(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	products := NewProductRepository(db, testLogger())
	repo := NewStockRepository(db, testLogger())
	ctx := context.Background()

	paneer := models.NewProduct("Paneer", "kg", 300, 12)
	paneer.ReorderLevel = 5
	if err := products.Create(ctx, paneer); err != nil {
		t.Fatalf("Create() product failed: %v", err)
	}

	level, err := repo.GetLevel(ctx, paneer.ID)
	if err != nil {
		t.Fatalf("GetLevel() failed: %v", err)
	}
	if !level.OnHand.IsZero() || level.ProductName != "Paneer" {
		t.Errorf("initial level = %+v, want zero for Paneer", level)
	}

	level.Receive(decimal.NewFromInt(10), decimal.NewFromInt(250))
	level.Receive(decimal.NewFromInt(10), decimal.NewFromInt(270))
	if err := repo.SaveLevel(ctx, level); err != nil {
		t.Fatalf("SaveLevel() failed: %v", err)
	}

	stored, err := repo.GetLevel(ctx, paneer.ID)
	if err != nil {
		t.Fatalf("GetLevel() failed: %v", err)
	}
	if !stored.OnHand.Equal(decimal.NewFromInt(20)) || !stored.AverageCost.Equal(decimal.NewFromInt(260)) {
		t.Errorf("stored level = %s @ %s, want 20 @ 260", stored.OnHand, stored.AverageCost)
	}
	if !stored.ReorderLevel.Equal(decimal.NewFromInt(5)) {
		t.Errorf("ReorderLevel = %s, want 5", stored.ReorderLevel)
	}

	soon := time.Now().Add(48 * time.Hour)
	later := time.Now().Add(30 * 24 * time.Hour)

	in := models.NewStockMovement(paneer.ID, models.MovementIn, models.ReasonPurchase, decimal.NewFromInt(8), decimal.NewFromInt(250))
	in.ExpiryDate = &soon
	in2 := models.NewStockMovement(paneer.ID, models.MovementIn, models.ReasonPurchase, decimal.NewFromInt(4), decimal.NewFromInt(270))
	in2.ExpiryDate = &later
	out := models.NewStockMovement(paneer.ID, models.MovementOut, models.ReasonSale, decimal.RequireFromString("2.5"), decimal.Zero)

	for _, m := range []*models.StockMovement{in, in2, out} {
		if err := repo.RecordMovement(ctx, m); err != nil {
			t.Fatalf("RecordMovement() failed: %v", err)
		}
	}

	sum, err := repo.SumQuantity(ctx, paneer.ID)
	if err != nil {
		t.Fatalf("SumQuantity() failed: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("9.5")) {
		t.Errorf("SumQuantity() = %s, want 9.5", sum)
	}

	movements, err := repo.ListMovements(ctx, paneer.ID, 2)
	if err != nil || len(movements) != 2 {
		t.Fatalf("ListMovements() = %d, %v, want 2", len(movements), err)
	}

	ref := "6f1c2d3e-4b5a-4c6d-8e7f-90a1b2c3d4e5"
	reversed := models.NewStockMovement(paneer.ID, models.MovementIn, models.ReasonPurchase, decimal.NewFromInt(3), decimal.NewFromInt(260))
	reversed.ReferenceID = &ref
	reversal := models.NewStockMovement(paneer.ID, models.MovementOut, models.ReasonAdjustment, decimal.NewFromInt(3), decimal.NewFromInt(260))
	reversal.ReferenceID = &ref
	for _, m := range []*models.StockMovement{reversed, reversal} {
		if err := repo.RecordMovement(ctx, m); err != nil {
			t.Fatalf("RecordMovement() failed: %v", err)
		}
	}

	receipts, err := repo.ListOpenReceipts(ctx)
	if err != nil {
		t.Fatalf("ListOpenReceipts() failed: %v", err)
	}
	if len(receipts) != 2 || receipts[0].ID != in2.ID || receipts[1].ID != in.ID {
		t.Errorf("ListOpenReceipts() = %d movements, want the two unreversed receipts newest first", len(receipts))
	}

	levels, err := repo.ListLevels(ctx)
	if err != nil || len(levels) != 1 {
		t.Errorf("ListLevels() = %d, %v, want 1", len(levels), err)
	}

	if _, err := repo.GetLevel(ctx, "missing"); !repositories.IsNotFound(err) {
		t.Errorf("GetLevel() for unknown product error = %v, want not found", err)
	}

	bad := models.NewStockMovement("missing", models.MovementIn, models.ReasonAdjustment, decimal.NewFromInt(1), decimal.Zero)
	if err := repo.RecordMovement(ctx, bad); !repositories.IsConstraint(err) {
		t.Errorf("RecordMovement() for unknown product error = %v, want constraint", err)
	}
}

func TestSequenceRepository_Next(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSequenceRepository(db, testLogger())
	ctx := context.Background()
	day := time.Date(2025, 1, 27, 15, 0, 0, 0, time.UTC)

	current, err := repo.Current(ctx, "PSM", day)
	if err != nil || current != 0 {
		t.Errorf("Current() before Next = %d, %v, want 0", current, err)
	}

	var wg sync.WaitGroup
	seen := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Next(ctx, "PSM", day)
			if err != nil {
				t.Errorf("Next() failed: %v", err)
				return
			}
			seen <- v
		}()
	}
	wg.Wait()
	close(seen)

	values := map[int]bool{}
	for v := range seen {
		if values[v] {
			t.Errorf("Next() returned %d twice", v)
		}
		values[v] = true
	}
	if len(values) != 10 {
		t.Errorf("Next() returned %d distinct values, want 10", len(values))
	}

	next, err := repo.Next(ctx, "PSM", day.AddDate(0, 0, 1))
	if err != nil || next != 1 {
		t.Errorf("Next() on a new day = %d, %v, want 1", next, err)
	}

	other, err := repo.Next(ctx, "RET", day)
	if err != nil || other != 1 {
		t.Errorf("Next() for another prefix = %d, %v, want 1", other, err)
	}
}

func TestRepositoryManager_WithTransaction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	manager := NewSQLiteRepositoryManager(db, testLogger())
	ctx := context.Background()

	if err := manager.Health(ctx); err != nil {
		t.Fatalf("Health() failed: %v", err)
	}

	failure := errors.New("abort")
	kept := models.NewCustomer("Kept")
	dropped := models.NewCustomer("Dropped")

	err := manager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := manager.Customers().Create(ctx, dropped); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("WithTransaction() error = %v, want abort", err)
	}

	err = manager.WithTransaction(ctx, func(ctx context.Context) error {
		return manager.WithTransaction(ctx, func(ctx context.Context) error {
			return manager.Customers().Create(ctx, kept)
		})
	})
	if err != nil {
		t.Fatalf("nested WithTransaction() failed: %v", err)
	}

	if _, err := manager.Customers().GetByID(ctx, dropped.ID); !repositories.IsNotFound(err) {
		t.Errorf("rolled back customer still present: %v", err)
	}
	if _, err := manager.Customers().GetByID(ctx, kept.ID); err != nil {
		t.Errorf("committed customer missing: %v", err)
	}
}
