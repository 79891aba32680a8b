package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/config"
	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/services"
)

// GSTHandler exposes the stateless calculation engine
type GSTHandler struct {
	taxService services.TaxServiceInterface
}

// NewGSTHandler creates a new GST handler
func NewGSTHandler(taxService services.TaxServiceInterface) *GSTHandler {
	return &GSTHandler{
		taxService: taxService,
	}
}

// GSTINRequest carries a GSTIN to check
type GSTINRequest struct {
	GSTIN string `json:"gstin" binding:"required"`
}

// GSTINResponse reports whether a GSTIN is valid
type GSTINResponse struct {
	GSTIN     string `json:"gstin"`
	Valid     bool   `json:"valid"`
	StateCode string `json:"state_code,omitempty"`
	Message   string `json:"message,omitempty"`
}

// @Summary Tax configuration
// @Description Slabs, currency and seller state in effect
// @Tags gst
// @Produce json
// @Success 200 {object} services.TaxInfo
// @Router /gst/info [get]
func (h *GSTHandler) GetTaxInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.taxService.GetTaxInfo())
}

// @Summary Configuration guide
// @Description Environment variables, examples and state codes
// @Tags gst
// @Produce json
// @Success 200 {object} config.TaxConfigurationGuide
// @Router /gst/config-guide [get]
func (h *GSTHandler) GetConfigurationGuide(c *gin.Context) {
	c.JSON(http.StatusOK, config.GetTaxConfigurationGuide())
}

// @Summary Validate a GSTIN
// @Tags gst
// @Accept json
// @Produce json
// @Param request body GSTINRequest true "GSTIN"
// @Success 200 {object} GSTINResponse
// @Failure 400 {object} ErrorResponse
// @Router /gst/validate-gstin [post]
func (h *GSTHandler) ValidateGSTIN(c *gin.Context) {
	var req GSTINRequest
	if !bindJSON(c, &req) {
		return
	}

	resp := GSTINResponse{GSTIN: req.GSTIN, Valid: true}
	if err := h.taxService.ValidateGSTIN(req.GSTIN); err != nil {
		resp.Valid = false
		resp.Message = err.Error()
	} else {
		resp.StateCode = gst.StateCodeFromGSTIN(strings.ToUpper(strings.TrimSpace(req.GSTIN)))
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate a sales line
// @Tags gst
// @Accept json
// @Produce json
// @Param request body services.CalculateItemRequest true "Line"
// @Success 200 {object} gst.LineItem
// @Failure 400 {object} ErrorResponse
// @Router /gst/calculate/item [post]
func (h *GSTHandler) CalculateItem(c *gin.Context) {
	var req services.CalculateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.taxService.CalculateItem(&req)
	if err != nil {
		respondError(c, "calculate item", err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// @Summary Calculate a purchase line
// @Tags gst
// @Accept json
// @Produce json
// @Param request body services.CalculatePurchaseItemRequest true "Line"
// @Success 200 {object} gst.PurchaseLineTotals
// @Failure 400 {object} ErrorResponse
// @Router /gst/calculate/purchase-item [post]
func (h *GSTHandler) CalculatePurchaseItem(c *gin.Context) {
	var req services.CalculatePurchaseItemRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.taxService.CalculatePurchaseItem(&req)
	if err != nil {
		respondError(c, "calculate purchase item", err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// @Summary Preview a sales invoice
// @Description Compute lines, supply type, CGST/SGST or IGST, totals and the per-slab breakdown without saving
// @Tags gst
// @Accept json
// @Produce json
// @Param request body services.CalculateInvoiceRequest true "Invoice"
// @Success 200 {object} services.InvoiceCalculation
// @Failure 400 {object} ErrorResponse
// @Router /gst/calculate/invoice [post]
func (h *GSTHandler) CalculateInvoice(c *gin.Context) {
	var req services.CalculateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	calc, err := h.taxService.CalculateInvoice(&req)
	if err != nil {
		respondError(c, "calculate invoice", err)
		return
	}

	c.JSON(http.StatusOK, calc)
}

// @Summary Preview a purchase invoice
// @Tags gst
// @Accept json
// @Produce json
// @Param request body services.CalculatePurchaseRequest true "Purchase"
// @Success 200 {object} services.PurchaseCalculation
// @Failure 400 {object} ErrorResponse
// @Router /gst/calculate/purchase [post]
func (h *GSTHandler) CalculatePurchase(c *gin.Context) {
	var req services.CalculatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	calc, err := h.taxService.CalculatePurchase(&req)
	if err != nil {
		respondError(c, "calculate purchase", err)
		return
	}

	c.JSON(http.StatusOK, calc)
}

// @Summary Validate sales invoice input
// @Description Lists every problem in the input. Products must be in the built-in catalog.
// @Tags gst
// @Accept json
// @Produce json
// @Param request body gst.InvoiceInput true "Invoice input"
// @Success 200 {object} gst.ValidationResult
// @Router /gst/validate/invoice [post]
func (h *GSTHandler) ValidateInvoice(c *gin.Context) {
	var input gst.InvoiceInput
	if !bindJSON(c, &input) {
		return
	}

	c.JSON(http.StatusOK, h.taxService.ValidateInvoice(input))
}

// @Summary Validate purchase input
// @Tags gst
// @Accept json
// @Produce json
// @Param request body gst.PurchaseInput true "Purchase input"
// @Success 200 {object} gst.ValidationResult
// @Router /gst/validate/purchase [post]
func (h *GSTHandler) ValidatePurchase(c *gin.Context) {
	var input gst.PurchaseInput
	if !bindJSON(c, &input) {
		return
	}

	c.JSON(http.StatusOK, h.taxService.ValidatePurchase(input))
}
