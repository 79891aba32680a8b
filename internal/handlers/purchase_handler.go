package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/services"
)

// PurchaseHandler handles purchase invoices received from vendors
type PurchaseHandler struct {
	purchaseService services.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// @Summary Record a purchase
// @Description Validate, compute GST and save a purchase invoice. Stock of stored products is received.
// @Tags purchases
// @Accept json
// @Produce json
// @Param purchase body services.CreatePurchaseRequest true "Purchase data"
// @Success 201 {object} models.Purchase
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req services.CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create purchase", err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// @Summary List purchases
// @Tags purchases
// @Produce json
// @Param party_id query string false "Filter by vendor ID"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param limit query int false "Limit number of results" default(50)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {object} services.PurchaseList
// @Failure 400 {object} ErrorResponse
// @Router /purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	filters, ok := documentFilters(c)
	if !ok {
		return
	}

	list, err := h.purchaseService.ListPurchases(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "list purchases", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Get a purchase
// @Tags purchases
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} models.Purchase
// @Failure 404 {object} ErrorResponse
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, ok := pathID(c, "id", "Purchase")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get purchase", err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// @Summary Get a purchase by number
// @Tags purchases
// @Produce json
// @Param number path string true "Purchase number"
// @Success 200 {object} models.Purchase
// @Failure 404 {object} ErrorResponse
// @Router /purchases/number/{number} [get]
func (h *PurchaseHandler) GetPurchaseByNumber(c *gin.Context) {
	purchase, err := h.purchaseService.GetPurchaseByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, "get purchase", err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// @Summary Delete a purchase
// @Description Reverses the stock it received
// @Tags purchases
// @Param id path string true "Purchase ID"
// @Success 204 "Purchase deleted successfully"
// @Failure 404 {object} ErrorResponse
// @Router /purchases/{id} [delete]
func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	id, ok := pathID(c, "id", "Purchase")
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, "delete purchase", err)
		return
	}

	c.Status(http.StatusNoContent)
}
