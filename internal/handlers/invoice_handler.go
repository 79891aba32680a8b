package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/services"
)

// InvoiceHandler handles sales invoices and sales returns
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// documentFilters reads the listing filters shared by invoices and purchases
func documentFilters(c *gin.Context) (*services.DocumentFilters, bool) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return nil, false
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return nil, false
	}

	return &services.DocumentFilters{
		PartyID:   queryString(c, "party_id"),
		StartDate: start,
		EndDate:   end,
		Limit:     queryInt(c, "limit", 50),
		Offset:    queryInt(c, "offset", 0),
	}, true
}

// @Summary Issue a sales invoice
// @Description Validate, compute GST and save a sales invoice. Stock of stored products is issued.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body services.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create invoice", err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// @Summary List invoices
// @Description List sales invoices and returns, newest first
// @Tags invoices
// @Produce json
// @Param type query string false "Document type" Enums(sale, return)
// @Param party_id query string false "Filter by customer ID"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param limit query int false "Limit number of results" default(50)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {object} services.InvoiceList
// @Failure 400 {object} ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filters, ok := documentFilters(c)
	if !ok {
		return
	}

	switch t := models.InvoiceType(c.Query("type")); t {
	case "":
	case models.InvoiceTypeSale, models.InvoiceTypeReturn:
		filters.Type = &t
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid type",
			Message: "type must be sale or return",
		})
		return
	}

	list, err := h.invoiceService.ListInvoices(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "list invoices", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c, "id", "Invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get invoice", err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// @Summary Get an invoice by number
// @Tags invoices
// @Produce json
// @Param number path string true "Invoice number"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Router /invoices/number/{number} [get]
func (h *InvoiceHandler) GetInvoiceByNumber(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, "get invoice", err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// @Summary Returns against an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id}/returns [get]
func (h *InvoiceHandler) GetReturns(c *gin.Context) {
	id, ok := pathID(c, "id", "Invoice")
	if !ok {
		return
	}

	returns, err := h.invoiceService.GetReturns(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get returns", err)
		return
	}

	c.JSON(http.StatusOK, returns)
}

// @Summary Delete an invoice
// @Description Reverses the stock it moved. An invoice with returns cannot be deleted.
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204 "Invoice deleted successfully"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := pathID(c, "id", "Invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		respondError(c, "delete invoice", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Invoice PDF
// @Description Render the tax invoice and archive it
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	id, ok := pathID(c, "id", "Invoice")
	if !ok {
		return
	}

	doc, err := h.invoiceService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, "generate PDF", err)
		return
	}

	sendDocument(c, doc)
}

// @Summary Issue a sales return
// @Description Credit goods back against a sales invoice. Stock is received back.
// @Tags returns
// @Accept json
// @Produce json
// @Param return body services.CreateReturnRequest true "Return data"
// @Success 201 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /returns [post]
func (h *InvoiceHandler) CreateReturn(c *gin.Context) {
	var req services.CreateReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	ret, err := h.invoiceService.CreateReturn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create return", err)
		return
	}

	c.JSON(http.StatusCreated, ret)
}
