package services

import (
	"context"
	"fmt"
	"strings"

	"gst-invoice-api/internal/gst"
	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// productService implements the ProductService interface
type productService struct {
	productRepo repositories.ProductRepository
	validator   *validator.Validate
	logger      *logrus.Logger
}

// NewProductService creates a new product service instance
func NewProductService(productRepo repositories.ProductRepository, logger *logrus.Logger) ProductService {
	if logger == nil {
		logger = logrus.New()
	}
	return &productService{
		productRepo: productRepo,
		validator:   NewValidator(),
		logger:      logger,
	}
}

// CreateProduct creates a new product
func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("create product request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := models.NewProduct(models.SanitizeString(req.Name), req.Unit, req.Rate, req.GSTRate)
	product.Description = req.Description
	product.Category = req.Category
	product.HSNCode = req.HSNCode
	product.ReorderLevel = req.ReorderLevel

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("product validation failed: %w", err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"gst_rate":   product.GSTRate,
	}).Info("Product created")

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// UpdateProduct updates an existing product
func (s *productService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("update product request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = models.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		product.SetDescription(*req.Description)
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.HSNCode != nil {
		product.HSNCode = *req.HSNCode
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Rate != nil {
		product.Rate = *req.Rate
	}
	if req.GSTRate != nil {
		product.GSTRate = *req.GSTRate
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	product.UpdateTimestamp()

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("product validation failed: %w", err)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct deletes a product. Issued documents keep the product name
// on their lines.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("Product deleted")
	return nil
}

// ListProducts retrieves products with optional filters
func (s *productService) ListProducts(ctx context.Context, filters *ProductFilters) ([]*models.Product, error) {
	repoFilters := make(map[string]interface{})

	if filters != nil {
		if filters.Category != nil {
			repoFilters["category"] = *filters.Category
		}
		if filters.Active != nil {
			repoFilters["active"] = *filters.Active
		}
		if filters.GSTRate != nil {
			if !gst.IsValidGSTRate(*filters.GSTRate) {
				return nil, fmt.Errorf("validation failed: invalid GST rate %v", *filters.GSTRate)
			}
			repoFilters["gst_rate"] = *filters.GSTRate
		}
	}

	products, err := s.productRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// SearchProducts matches name, category and HSN code
func (s *productService) SearchProducts(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	if limit <= 0 {
		limit = 50
	}

	products, err := s.productRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// GetProductsByCategory retrieves products by category
func (s *productService) GetProductsByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("category cannot be empty")
	}

	products, err := s.productRepo.GetByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}

	return products, nil
}

// GetActiveProducts retrieves all active products
func (s *productService) GetActiveProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.productRepo.GetActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active products: %w", err)
	}

	return products, nil
}

// ImportCatalog stores the built-in catalog entries that are missing
func (s *productService) ImportCatalog(ctx context.Context) ([]*models.Product, error) {
	var created []*models.Product

	for _, details := range gst.CatalogProducts() {
		_, err := s.productRepo.GetByName(ctx, details.Name)
		if err == nil {
			continue
		}
		if !repositories.IsNotFound(err) {
			return created, fmt.Errorf("failed to look up product %s: %w", details.Name, err)
		}

		product := models.NewProductFromCatalog(details)
		if err := s.productRepo.Create(ctx, product); err != nil {
			return created, fmt.Errorf("failed to import product %s: %w", details.Name, err)
		}
		created = append(created, product)
	}

	s.logger.WithField("imported", len(created)).Info("Catalog imported")
	return created, nil
}
