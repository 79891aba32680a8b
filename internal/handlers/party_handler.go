package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/services"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

func partyFilters(c *gin.Context) *services.PartyFilters {
	return &services.PartyFilters{
		Name:  queryString(c, "name"),
		GSTIN: queryString(c, "gstin"),
	}
}

// @Summary Create a new customer
// @Description Register a buyer. The state code decides CGST/SGST or IGST on its invoices.
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body services.CreateCustomerRequest true "Customer data"
// @Success 201 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create customer", err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// @Summary List customers
// @Tags customers
// @Produce json
// @Param name query string false "Filter by name"
// @Param gstin query string false "Filter by GSTIN"
// @Success 200 {array} models.Customer
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context(), partyFilters(c))
	if err != nil {
		respondError(c, "list customers", err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id", "Customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Find a customer by GSTIN
// @Tags customers
// @Produce json
// @Param gstin path string true "GSTIN"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /customers/gstin/{gstin} [get]
func (h *CustomerHandler) GetCustomerByGSTIN(c *gin.Context) {
	gstin := strings.ToUpper(c.Param("gstin"))

	customer, err := h.customerService.GetCustomerByGSTIN(c.Request.Context(), gstin)
	if err != nil {
		respondError(c, "get customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param customer body services.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id", "Customer")
	if !ok {
		return
	}

	var req services.UpdateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, "update customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// @Summary Delete a customer
// @Tags customers
// @Param id path string true "Customer ID"
// @Success 204 "Customer deleted successfully"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id", "Customer")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, "delete customer", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Search customers
// @Tags customers
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {array} models.Customer
// @Router /customers/search [get]
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	customers, err := h.customerService.SearchCustomers(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, "search customers", err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// VendorHandler handles vendor-related HTTP requests
type VendorHandler struct {
	vendorService services.VendorService
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService services.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// @Summary Create a new vendor
// @Description Register a supplier. A unique vendor code is generated.
// @Tags vendors
// @Accept json
// @Produce json
// @Param vendor body services.CreateVendorRequest true "Vendor data"
// @Success 201 {object} models.Vendor
// @Failure 400 {object} ErrorResponse
// @Router /vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req services.CreateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create vendor", err)
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

// @Summary List vendors
// @Tags vendors
// @Produce json
// @Param name query string false "Filter by name"
// @Param gstin query string false "Filter by GSTIN"
// @Success 200 {array} models.Vendor
// @Router /vendors [get]
func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorService.ListVendors(c.Request.Context(), partyFilters(c))
	if err != nil {
		respondError(c, "list vendors", err)
		return
	}

	c.JSON(http.StatusOK, vendors)
}

// @Summary Get a vendor
// @Tags vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} ErrorResponse
// @Router /vendors/{id} [get]
func (h *VendorHandler) GetVendor(c *gin.Context) {
	id, ok := pathID(c, "id", "Vendor")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get vendor", err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// @Summary Find a vendor by code
// @Tags vendors
// @Produce json
// @Param code path string true "Vendor code"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} ErrorResponse
// @Router /vendors/code/{code} [get]
func (h *VendorHandler) GetVendorByCode(c *gin.Context) {
	vendor, err := h.vendorService.GetVendorByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, "get vendor", err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// @Summary Update a vendor
// @Tags vendors
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID"
// @Param vendor body services.UpdateVendorRequest true "Fields to change"
// @Success 200 {object} models.Vendor
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /vendors/{id} [put]
func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	id, ok := pathID(c, "id", "Vendor")
	if !ok {
		return
	}

	var req services.UpdateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, "update vendor", err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// @Summary Delete a vendor
// @Tags vendors
// @Param id path string true "Vendor ID"
// @Success 204 "Vendor deleted successfully"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /vendors/{id} [delete]
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	id, ok := pathID(c, "id", "Vendor")
	if !ok {
		return
	}

	if err := h.vendorService.DeleteVendor(c.Request.Context(), id); err != nil {
		respondError(c, "delete vendor", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Search vendors
// @Tags vendors
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {array} models.Vendor
// @Router /vendors/search [get]
func (h *VendorHandler) SearchVendors(c *gin.Context) {
	vendors, err := h.vendorService.SearchVendors(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, "search vendors", err)
		return
	}

	c.JSON(http.StatusOK, vendors)
}
