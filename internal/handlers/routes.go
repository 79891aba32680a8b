package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gst-invoice-api/docs"
	"gst-invoice-api/internal/config"
	"gst-invoice-api/internal/middleware"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Services  *services.ServiceContainer
	Logger    *logrus.Logger
	RateLimit config.RateLimitConfig

	// Health checks the backing store. Nil reports the database as unchecked.
	Health func(ctx context.Context) error

	// Swagger enables the interactive documentation
	Swagger bool
}

// NewRouter builds a gin engine with the middleware chain and all routes
func NewRouter(cfg *RouterConfig) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router, cfg)
	SetupRoutes(router, cfg)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	svc := cfg.Services

	productHandler := NewProductHandler(svc.ProductService)
	customerHandler := NewCustomerHandler(svc.CustomerService)
	vendorHandler := NewVendorHandler(svc.VendorService)
	invoiceHandler := NewInvoiceHandler(svc.InvoiceService)
	purchaseHandler := NewPurchaseHandler(svc.PurchaseService)
	stockHandler := NewStockHandler(svc.StockService)
	gstHandler := NewGSTHandler(svc.TaxService)
	reportHandler := NewReportHandler(svc.ReportService)

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", healthHandler(cfg.Health))

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.GET("", productHandler.ListProducts)
			products.GET("/search", productHandler.SearchProducts)
			products.GET("/active", productHandler.GetActiveProducts)
			products.GET("/category/:category", productHandler.GetProductsByCategory)
			products.GET("/catalog", productHandler.ListCatalog)
			products.POST("/import-catalog", productHandler.ImportCatalog)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("", customerHandler.ListCustomers)
			customers.GET("/search", customerHandler.SearchCustomers)
			customers.GET("/gstin/:gstin", customerHandler.GetCustomerByGSTIN)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		vendors := v1.Group("/vendors")
		{
			vendors.POST("", vendorHandler.CreateVendor)
			vendors.GET("", vendorHandler.ListVendors)
			vendors.GET("/search", vendorHandler.SearchVendors)
			vendors.GET("/code/:code", vendorHandler.GetVendorByCode)
			vendors.GET("/:id", vendorHandler.GetVendor)
			vendors.PUT("/:id", vendorHandler.UpdateVendor)
			vendors.DELETE("/:id", vendorHandler.DeleteVendor)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.CreateInvoice)
			invoices.GET("", invoiceHandler.ListInvoices)
			invoices.GET("/number/:number", invoiceHandler.GetInvoiceByNumber)
			invoices.GET("/:id", invoiceHandler.GetInvoice)
			invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)
			invoices.GET("/:id/returns", invoiceHandler.GetReturns)
			invoices.GET("/:id/pdf", invoiceHandler.GeneratePDF)
		}

		v1.POST("/returns", invoiceHandler.CreateReturn)

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchaseHandler.CreatePurchase)
			purchases.GET("", purchaseHandler.ListPurchases)
			purchases.GET("/number/:number", purchaseHandler.GetPurchaseByNumber)
			purchases.GET("/:id", purchaseHandler.GetPurchase)
			purchases.DELETE("/:id", purchaseHandler.DeletePurchase)
		}

		stock := v1.Group("/stock")
		{
			stock.GET("", stockHandler.ListStockLevels)
			stock.GET("/low", stockHandler.GetLowStock)
			stock.GET("/expiring", stockHandler.GetExpiringStock)
			stock.GET("/valuation", stockHandler.Valuation)
			stock.POST("/adjustments", stockHandler.AdjustStock)
			stock.GET("/:product_id", stockHandler.GetStockLevel)
			stock.GET("/:product_id/movements", stockHandler.GetMovements)
		}

		gstRoutes := v1.Group("/gst")
		{
			gstRoutes.GET("/info", gstHandler.GetTaxInfo)
			gstRoutes.GET("/config-guide", gstHandler.GetConfigurationGuide)
			gstRoutes.POST("/validate-gstin", gstHandler.ValidateGSTIN)
			gstRoutes.POST("/calculate/item", gstHandler.CalculateItem)
			gstRoutes.POST("/calculate/purchase-item", gstHandler.CalculatePurchaseItem)
			gstRoutes.POST("/calculate/invoice", gstHandler.CalculateInvoice)
			gstRoutes.POST("/calculate/purchase", gstHandler.CalculatePurchase)
			gstRoutes.POST("/validate/invoice", gstHandler.ValidateInvoice)
			gstRoutes.POST("/validate/purchase", gstHandler.ValidatePurchase)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/gst-summary", reportHandler.GetGSTSummary)
			reports.GET("/gst-summary/export", reportHandler.ExportGSTSummary)
		}
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthCheck
// @Failure 503 {object} models.HealthCheck
// @Router /health [get]
func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := models.HealthCheck{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   Version,
			Services:  map[string]string{"database": "unchecked"},
		}

		status := http.StatusOK
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				health.Status = "unhealthy"
				health.Services["database"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				health.Services["database"] = "ok"
			}
		}

		c.JSON(status, health)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	// Request ID and correlation ID
	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Request size limit (10MB)
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))

	// Content type validation for POST/PUT requests
	router.Use(middleware.ContentTypeValidation("application/json"))

	router.Use(middleware.RequestValidation())
	router.Use(middleware.RateLimiter(logger, cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	router.Use(middleware.StructuredLogger(logger))

	// Log requests over 1 second
	router.Use(middleware.PerformanceMonitor(logger, time.Second))

	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.ErrorHandler(logger))
}
