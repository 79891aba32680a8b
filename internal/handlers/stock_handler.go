package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/services"
)

// StockHandler exposes stock positions, the ledger and manual adjustments
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService services.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// ValuationResponse is the value of all stock on hand
type ValuationResponse struct {
	Value decimal.Decimal `json:"value"`
}

// @Summary Stock levels
// @Description Position of every active product
// @Tags stock
// @Produce json
// @Success 200 {array} models.StockLevel
// @Router /stock [get]
func (h *StockHandler) ListStockLevels(c *gin.Context) {
	levels, err := h.stockService.ListStockLevels(c.Request.Context())
	if err != nil {
		respondError(c, "list stock levels", err)
		return
	}

	c.JSON(http.StatusOK, levels)
}

// @Summary Stock level of a product
// @Tags stock
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} models.StockLevel
// @Failure 404 {object} ErrorResponse
// @Router /stock/{product_id} [get]
func (h *StockHandler) GetStockLevel(c *gin.Context) {
	id, ok := pathID(c, "product_id", "Product")
	if !ok {
		return
	}

	level, err := h.stockService.GetStockLevel(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get stock level", err)
		return
	}

	c.JSON(http.StatusOK, level)
}

// @Summary Stock movements of a product
// @Description Ledger entries, newest first
// @Tags stock
// @Produce json
// @Param product_id path string true "Product ID"
// @Param limit query int false "Limit number of results" default(100)
// @Success 200 {array} models.StockMovement
// @Router /stock/{product_id}/movements [get]
func (h *StockHandler) GetMovements(c *gin.Context) {
	id, ok := pathID(c, "product_id", "Product")
	if !ok {
		return
	}

	movements, err := h.stockService.GetMovements(c.Request.Context(), id, queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, "list stock movements", err)
		return
	}

	c.JSON(http.StatusOK, movements)
}

// @Summary Low stock
// @Description Products at or below their reorder level
// @Tags stock
// @Produce json
// @Success 200 {array} models.StockLevel
// @Router /stock/low [get]
func (h *StockHandler) GetLowStock(c *gin.Context) {
	levels, err := h.stockService.GetLowStock(c.Request.Context())
	if err != nil {
		respondError(c, "get low stock", err)
		return
	}

	c.JSON(http.StatusOK, levels)
}

// @Summary Expiring stock
// @Description Received batches expiring within the window, already expired ones included
// @Tags stock
// @Produce json
// @Param within_days query number false "Warning window in days" default(7)
// @Success 200 {array} models.ExpiringStock
// @Router /stock/expiring [get]
func (h *StockHandler) GetExpiringStock(c *gin.Context) {
	var within time.Duration
	if days := c.Query("within_days"); days != "" {
		val, err := strconv.ParseFloat(days, 64)
		if err != nil || val <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid within_days",
				Message: "within_days must be a positive number",
			})
			return
		}
		within = time.Duration(val * float64(24*time.Hour))
	}

	expiring, err := h.stockService.GetExpiringStock(c.Request.Context(), within)
	if err != nil {
		respondError(c, "get expiring stock", err)
		return
	}

	c.JSON(http.StatusOK, expiring)
}

// @Summary Adjust stock
// @Description Record a manual correction. A positive quantity receives stock, a negative one issues it.
// @Tags stock
// @Accept json
// @Produce json
// @Param adjustment body services.AdjustStockRequest true "Adjustment"
// @Success 200 {object} models.StockLevel
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /stock/adjustments [post]
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req services.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	level, err := h.stockService.AdjustStock(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "adjust stock", err)
		return
	}

	c.JSON(http.StatusOK, level)
}

// @Summary Stock valuation
// @Description Weighted-average value of all stock on hand
// @Tags stock
// @Produce json
// @Success 200 {object} ValuationResponse
// @Router /stock/valuation [get]
func (h *StockHandler) Valuation(c *gin.Context) {
	value, err := h.stockService.Valuation(c.Request.Context())
	if err != nil {
		respondError(c, "value stock", err)
		return
	}

	c.JSON(http.StatusOK, ValuationResponse{Value: value})
}
