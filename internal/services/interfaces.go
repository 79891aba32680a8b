package services

import (
	"context"
	"time"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"

	"github.com/shopspring/decimal"
)

// ProductService defines the interface for product business logic operations
type ProductService interface {
	// CRUD operations
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, filters *ProductFilters) ([]*models.Product, error)

	// Search and lookup operations
	SearchProducts(ctx context.Context, query string, limit int) ([]*models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*models.Product, error)
	GetActiveProducts(ctx context.Context) ([]*models.Product, error)

	// ImportCatalog creates a product for every built-in catalog entry not yet stored
	ImportCatalog(ctx context.Context) ([]*models.Product, error)
}

// CustomerService defines the interface for customer business logic operations
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context, filters *PartyFilters) ([]*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error)
	GetCustomerByGSTIN(ctx context.Context, gstin string) (*models.Customer, error)
}

// VendorService defines the interface for vendor business logic operations
type VendorService interface {
	CreateVendor(ctx context.Context, req *CreateVendorRequest) (*models.Vendor, error)
	GetVendor(ctx context.Context, id string) (*models.Vendor, error)
	GetVendorByCode(ctx context.Context, code string) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, id string, req *UpdateVendorRequest) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
	ListVendors(ctx context.Context, filters *PartyFilters) ([]*models.Vendor, error)
	SearchVendors(ctx context.Context, query string, limit int) ([]*models.Vendor, error)
}

// InvoiceService issues sales invoices and sales returns
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error)
	CreateReturn(ctx context.Context, req *CreateReturnRequest) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, filters *DocumentFilters) (*InvoiceList, error)
	GetReturns(ctx context.Context, invoiceID string) ([]*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error

	// RenderPDF renders the invoice and archives the document
	RenderPDF(ctx context.Context, id string) (*RenderedDocument, error)
}

// PurchaseService records purchase invoices received from vendors
type PurchaseService interface {
	CreatePurchase(ctx context.Context, req *CreatePurchaseRequest) (*models.Purchase, error)
	GetPurchase(ctx context.Context, id string) (*models.Purchase, error)
	GetPurchaseByNumber(ctx context.Context, number string) (*models.Purchase, error)
	ListPurchases(ctx context.Context, filters *DocumentFilters) (*PurchaseList, error)
	DeletePurchase(ctx context.Context, id string) error
}

// StockService exposes the stock position and ledger
type StockService interface {
	GetStockLevel(ctx context.Context, productID string) (*models.StockLevel, error)
	ListStockLevels(ctx context.Context) ([]*models.StockLevel, error)
	GetLowStock(ctx context.Context) ([]*models.StockLevel, error)
	GetMovements(ctx context.Context, productID string, limit int) ([]*models.StockMovement, error)
	GetExpiringStock(ctx context.Context, within time.Duration) ([]*models.ExpiringStock, error)
	AdjustStock(ctx context.Context, req *AdjustStockRequest) (*models.StockLevel, error)
	Valuation(ctx context.Context) (decimal.Decimal, error)
}

// TaxServiceInterface defines stateless GST calculations and checks
type TaxServiceInterface interface {
	GetTaxInfo() *TaxInfo
	ValidateGSTIN(gstin string) error
	CalculateItem(req *CalculateItemRequest) (*gst.LineItem, error)
	CalculatePurchaseItem(req *CalculatePurchaseItemRequest) (*gst.PurchaseLineTotals, error)
	CalculateInvoice(req *CalculateInvoiceRequest) (*InvoiceCalculation, error)
	CalculatePurchase(req *CalculatePurchaseRequest) (*PurchaseCalculation, error)
	Breakdown(items []gst.LineItem) *gst.Breakdown
	ValidateInvoice(input gst.InvoiceInput) gst.ValidationResult
	ValidatePurchase(input gst.PurchaseInput) gst.ValidationResult
}

// ReportService builds period GST reports
type ReportService interface {
	GetGSTSummary(ctx context.Context, start, end time.Time) (*models.GSTSummary, error)
	ExportGSTSummary(ctx context.Context, start, end time.Time) (*RenderedDocument, error)
}

// Request and response types for service operations

// Product service types
type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category     string  `json:"category,omitempty" validate:"max=100"`
	HSNCode      string  `json:"hsn_code,omitempty" validate:"omitempty,numeric,min=4,max=8"`
	Unit         string  `json:"unit" validate:"required,max=20"`
	Rate         float64 `json:"rate" validate:"min=0"`
	GSTRate      float64 `json:"gst_rate" validate:"gst_rate"`
	ReorderLevel float64 `json:"reorder_level,omitempty" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	HSNCode      *string  `json:"hsn_code,omitempty" validate:"omitempty,numeric,min=4,max=8"`
	Unit         *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	Rate         *float64 `json:"rate,omitempty" validate:"omitempty,min=0"`
	GSTRate      *float64 `json:"gst_rate,omitempty" validate:"omitempty,gst_rate"`
	ReorderLevel *float64 `json:"reorder_level,omitempty" validate:"omitempty,min=0"`
	Active       *bool    `json:"active,omitempty"`
}

type ProductFilters struct {
	Category *string  `json:"category,omitempty"`
	Active   *bool    `json:"active,omitempty"`
	GSTRate  *float64 `json:"gst_rate,omitempty"`
}

// Customer and vendor service types
type CreateCustomerRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	GSTIN     *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	StateCode *string `json:"state_code,omitempty" validate:"omitempty,len=2,numeric"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type UpdateCustomerRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	GSTIN     *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	StateCode *string `json:"state_code,omitempty" validate:"omitempty,len=2,numeric"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type CreateVendorRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	GSTIN   *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type UpdateVendorRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	GSTIN   *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Active  *bool   `json:"active,omitempty"`
}

// PartyFilters narrows customer and vendor listings
type PartyFilters struct {
	Name  *string `json:"name,omitempty"`
	GSTIN *string `json:"gstin,omitempty"`
}

// Document service types

// DocumentItemRequest is one line as entered. A line names its product by
// ProductID or by Product (a stored product name or a catalog name).
type DocumentItemRequest struct {
	ProductID   *string    `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Product     string     `json:"product,omitempty"`
	Qty         float64    `json:"qty"`
	Rate        float64    `json:"rate,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Discount    float64    `json:"discount,omitempty"`
	BatchNumber *string    `json:"batch_number,omitempty"`

	// GSTRate and HSNCode describe a purchase line for a product that is
	// neither stored nor in the catalog.
	GSTRate *float64 `json:"gst_rate,omitempty"`
	HSNCode string   `json:"hsn_code,omitempty"`
}

type CreateInvoiceRequest struct {
	CustomerID    *string               `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName  string                `json:"customer_name"`
	CustomerGSTIN *string               `json:"customer_gstin,omitempty"`
	PlaceOfSupply string                `json:"place_of_supply,omitempty" validate:"omitempty,len=2,numeric"`
	InvoiceDate   *time.Time            `json:"invoice_date,omitempty"`
	Discount      *float64              `json:"discount,omitempty"`
	Items         []DocumentItemRequest `json:"items" validate:"max=200,dive"`
	Notes         *string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CreateReturnRequest struct {
	OriginalInvoiceID string                `json:"original_invoice_id" validate:"required,uuid"`
	ReturnDate        *time.Time            `json:"return_date,omitempty"`
	Discount          *float64              `json:"discount,omitempty"`
	Items             []DocumentItemRequest `json:"items" validate:"max=200,dive"`
	Notes             *string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CreatePurchaseRequest struct {
	VendorID            *string               `json:"vendor_id,omitempty" validate:"omitempty,uuid"`
	VendorName          string                `json:"vendor_name"`
	VendorInvoiceNumber *string               `json:"vendor_invoice_number,omitempty" validate:"omitempty,max=50"`
	PurchaseDate        *time.Time            `json:"purchase_date,omitempty"`
	Discount            *float64              `json:"discount,omitempty"`
	Items               []DocumentItemRequest `json:"items" validate:"max=200,dive"`
	Notes               *string               `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// DocumentFilters narrows invoice and purchase listings
type DocumentFilters struct {
	Type      *models.InvoiceType `json:"type,omitempty"`
	PartyID   *string             `json:"party_id,omitempty"`
	StartDate *time.Time          `json:"start_date,omitempty"`
	EndDate   *time.Time          `json:"end_date,omitempty"`
	Limit     int                 `json:"limit,omitempty"`
	Offset    int                 `json:"offset,omitempty"`
}

type InvoiceList struct {
	Invoices   []*models.Invoice        `json:"invoices"`
	Pagination *models.PaginationResult `json:"pagination"`
}

type PurchaseList struct {
	Purchases  []*models.Purchase       `json:"purchases"`
	Pagination *models.PaginationResult `json:"pagination"`
}

// RenderedDocument is a generated file and where it was archived
type RenderedDocument struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Stock service types
type AdjustStockRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reason    string          `json:"reason,omitempty" validate:"max=255"`
}

// Tax service types
type TaxInfo struct {
	TaxName               string    `json:"tax_name"`
	CountryCode           string    `json:"country_code"`
	Currency              string    `json:"currency"`
	Rates                 []float64 `json:"rates"`
	RegistrationThreshold float64   `json:"registration_threshold"`
	SellerStateCode       string    `json:"seller_state_code"`
	SellerState           string    `json:"seller_state,omitempty"`
	RequiredInvoiceFields []string  `json:"required_invoice_fields"`
}

type CalculateItemRequest struct {
	Product    string     `json:"product" validate:"required"`
	Qty        float64    `json:"qty" validate:"gt=0"`
	Rate       float64    `json:"rate,omitempty" validate:"min=0"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

type CalculatePurchaseItemRequest struct {
	Product  string   `json:"product" validate:"required"`
	Qty      float64  `json:"qty" validate:"gt=0"`
	Rate     float64  `json:"rate" validate:"gt=0"`
	Discount float64  `json:"discount,omitempty" validate:"min=0"`
	GSTRate  *float64 `json:"gst_rate,omitempty" validate:"omitempty,gst_rate"`
	Unit     string   `json:"unit,omitempty"`
	HSNCode  string   `json:"hsn_code,omitempty"`
}

type CalculateInvoiceRequest struct {
	Items          []CalculateItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
	Discount       *float64               `json:"discount,omitempty" validate:"omitempty,min=0,max=100"`
	BuyerGSTIN     string                 `json:"buyer_gstin,omitempty"`
	BuyerStateCode string                 `json:"buyer_state_code,omitempty" validate:"omitempty,len=2,numeric"`
}

type CalculatePurchaseRequest struct {
	Items    []CalculatePurchaseItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
	Discount float64                        `json:"discount,omitempty" validate:"min=0"`
}

// InvoiceCalculation is an unsaved sales document
type InvoiceCalculation struct {
	Items         []gst.LineItem    `json:"items"`
	SupplyType    gst.SupplyType    `json:"supply_type"`
	TaxableAmount float64           `json:"taxable_amount"`
	GSTAmount     float64           `json:"gst_amount"`
	Split         gst.TaxSplit      `json:"split"`
	Totals        gst.InvoiceTotals `json:"totals"`
	Breakdown     *gst.Breakdown    `json:"gst_breakdown"`
}

// PurchaseCalculation is an unsaved purchase document
type PurchaseCalculation struct {
	Items         []gst.PurchaseLineTotals `json:"items"`
	TaxableAmount float64                  `json:"taxable_amount"`
	GSTAmount     float64                  `json:"gst_amount"`
	Totals        gst.InvoiceTotals        `json:"totals"`
	Breakdown     *gst.Breakdown           `json:"gst_breakdown"`
}
