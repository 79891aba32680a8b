package sqlite

import (
	"context"
	"testing"
	"time"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

func buildInvoice(t *testing.T, number string, date time.Time, qty float64) *models.Invoice {
	t.Helper()

	inv := models.NewInvoice(models.InvoiceTypeSale, "Annapoorna Hotel")
	inv.InvoiceNumber = number
	inv.InvoiceDate = date
	inv.DiscountPercent = gst.DefaultDiscountPercent

	expiry := date.Add(72 * time.Hour)
	for i, name := range []string{"dosa", "paneer"} {
		line, err := gst.CalculateItemTotals(name, qty, 0, &expiry)
		if err != nil {
			t.Fatalf("CalculateItemTotals(%s) failed: %v", name, err)
		}
		inv.Items = append(inv.Items, models.NewInvoiceItem(inv.ID, i+1, nil, line))
	}
	inv.ApplyTotals()
	return inv
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	date := time.Date(2025, 1, 27, 10, 0, 0, 0, time.UTC)
	inv := buildInvoice(t, "PSM-2025-01-27-001", date, 10)
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := repo.GetByNumber(ctx, "PSM-2025-01-27-001")
	if err != nil {
		t.Fatalf("GetByNumber() failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("GetByNumber() items = %d, want 2", len(got.Items))
	}
	if got.Items[0].ProductName != "Dosa" || got.Items[1].ProductName != "Paneer" {
		t.Errorf("items out of line order: %s, %s", got.Items[0].ProductName, got.Items[1].ProductName)
	}
	if got.Total != inv.Total || got.CGST != inv.CGST {
		t.Errorf("stored totals = %v/%v, want %v/%v", got.Total, got.CGST, inv.Total, inv.CGST)
	}
	if got.Breakdown == nil || got.Breakdown.Len() != 2 {
		t.Errorf("breakdown not rebuilt on load")
	}

	dup := buildInvoice(t, "PSM-2025-01-27-001", date, 1)
	if err := repo.Create(ctx, dup); !repositories.IsDuplicate(err) {
		t.Errorf("Create() with taken number error = %v, want duplicate", err)
	}

	// the failed insert must not leave orphan items behind
	var items int
	if err := db.QueryRow("SELECT COUNT(*) FROM invoice_items WHERE invoice_id = ?", dup.ID).Scan(&items); err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if items != 0 {
		t.Errorf("found %d orphan items after failed create", items)
	}
}

func TestInvoiceRepository_ReturnsAndRanges(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	jan := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)

	sale := buildInvoice(t, "PSM-2025-01-10-001", jan, 10)
	later := buildInvoice(t, "PSM-2025-02-10-001", feb, 5)
	for _, inv := range []*models.Invoice{sale, later} {
		if err := repo.Create(ctx, inv); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	ret := buildInvoice(t, "RET-2025-01-12-001", jan.Add(48*time.Hour), 2)
	ret.InvoiceType = models.InvoiceTypeReturn
	ret.OriginalInvoiceID = &sale.ID
	if err := repo.Create(ctx, ret); err != nil {
		t.Fatalf("Create() return failed: %v", err)
	}

	returns, err := repo.GetReturns(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetReturns() failed: %v", err)
	}
	if len(returns) != 1 || len(returns[0].Items) != 2 {
		t.Errorf("GetReturns() = %d returns, want 1 with items", len(returns))
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	items, err := repo.GetItemsByDateRange(ctx, models.InvoiceTypeSale, start, end)
	if err != nil {
		t.Fatalf("GetItemsByDateRange() failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("GetItemsByDateRange() = %d items, want 2", len(items))
	}

	sales, err := repo.List(ctx, repositories.DocumentFilter{InvoiceType: models.InvoiceTypeSale})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(sales) != 2 || sales[0].ID != later.ID {
		t.Errorf("List() should return sales newest first")
	}

	count, err := repo.Count(ctx, repositories.DocumentFilter{StartDate: &start, EndDate: &end})
	if err != nil || count != 2 {
		t.Errorf("Count() January = %d, %v, want 2", count, err)
	}

	page, err := repo.List(ctx, repositories.DocumentFilter{Limit: 1, Offset: 1})
	if err != nil || len(page) != 1 {
		t.Errorf("List() page = %d, %v, want 1", len(page), err)
	}

	if err := repo.Delete(ctx, sale.ID); !repositories.IsConstraint(err) {
		t.Errorf("Delete() of returned invoice error = %v, want constraint", err)
	}
	if err := repo.Delete(ctx, later.ID); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
}

func TestPurchaseRepository_CreateAndList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPurchaseRepository(db, testLogger())
	ctx := context.Background()

	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	p := models.NewPurchase("Nandini Dairy")
	p.PurchaseNumber = "PUR-2025-03-05-ABCD1234"
	p.PurchaseDate = date

	line, err := gst.CalculatePurchaseTotals("paneer", 2, 300, 50)
	if err != nil {
		t.Fatalf("CalculatePurchaseTotals() failed: %v", err)
	}
	batch := "B-17"
	item := models.NewPurchaseItem(p.ID, 1, nil, line, date.AddDate(0, 0, 10))
	item.BatchNumber = &batch
	p.Items = append(p.Items, item)
	p.ApplyTotals(22)

	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Total != p.Total || got.Discount != 22 {
		t.Errorf("stored totals = %v/%v, want %v/22", got.Total, got.Discount, p.Total)
	}
	if len(got.Items) != 1 || got.Items[0].BatchNumber == nil || *got.Items[0].BatchNumber != "B-17" {
		t.Errorf("stored item = %+v", got.Items)
	}

	if _, err := repo.GetByNumber(ctx, p.PurchaseNumber); err != nil {
		t.Errorf("GetByNumber() failed: %v", err)
	}

	items, err := repo.GetItemsByDateRange(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil || len(items) != 1 {
		t.Errorf("GetItemsByDateRange() = %d, %v, want 1", len(items), err)
	}

	list, err := repo.List(ctx, repositories.DocumentFilter{})
	if err != nil || len(list) != 1 {
		t.Errorf("List() = %d, %v, want 1", len(list), err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !repositories.IsNotFound(err) {
		t.Errorf("GetByID() after delete error = %v, want not found", err)
	}
}
