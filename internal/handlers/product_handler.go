package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/services"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// @Summary Create a new product
// @Description Create a product with its HSN code, unit, rate and GST slab
// @Tags products
// @Accept json
// @Produce json
// @Param product body services.CreateProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// @Summary List products
// @Description Get products with optional filters
// @Tags products
// @Produce json
// @Param category query string false "Filter by category"
// @Param active query bool false "Filter by active flag"
// @Param gst_rate query number false "Filter by GST slab"
// @Success 200 {array} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters := &services.ProductFilters{
		Category: queryString(c, "category"),
		Active:   queryBool(c, "active"),
	}

	if rate := c.Query("gst_rate"); rate != "" {
		if val, err := strconv.ParseFloat(rate, 64); err == nil {
			filters.GSTRate = &val
		}
	}

	products, err := h.productService.ListProducts(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "list products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id", "Product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body services.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id", "Product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, "update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary Delete a product
// @Description Products referenced by documents or stock movements cannot be deleted
// @Tags products
// @Param id path string true "Product ID"
// @Success 204 "Product deleted successfully"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id", "Product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, "delete product", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Search products
// @Tags products
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {array} models.Product
// @Failure 400 {object} ErrorResponse
// @Router /products/search [get]
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: "Search query is required",
		})
		return
	}

	products, err := h.productService.SearchProducts(c.Request.Context(), query, queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, "search products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Products in a category
// @Tags products
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} models.Product
// @Failure 400 {object} ErrorResponse
// @Router /products/category/{category} [get]
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	products, err := h.productService.GetProductsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, "get products by category", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Active products
// @Description Products that can be sold
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products/active [get]
func (h *ProductHandler) GetActiveProducts(c *gin.Context) {
	products, err := h.productService.GetActiveProducts(c.Request.Context())
	if err != nil {
		respondError(c, "get active products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Built-in catalog
// @Description Products the engine knows without a stored record
// @Tags products
// @Produce json
// @Success 200 {array} gst.ProductDetails
// @Router /products/catalog [get]
func (h *ProductHandler) ListCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gst.CatalogProducts())
}

// @Summary Import the built-in catalog
// @Description Create a stored product for every catalog entry not yet stored
// @Tags products
// @Produce json
// @Success 201 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products/import-catalog [post]
func (h *ProductHandler) ImportCatalog(c *gin.Context) {
	products, err := h.productService.ImportCatalog(c.Request.Context())
	if err != nil {
		respondError(c, "import catalog", err)
		return
	}

	c.JSON(http.StatusCreated, products)
}
