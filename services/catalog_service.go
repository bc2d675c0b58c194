package services

import (
	"context"
	"strings"
	"time"

	"github.com/thriftwear/storefront/domain"
)

// CatalogService exposes the product catalog.
type CatalogService struct {
	products domain.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products domain.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ListProducts returns the whole catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx)
}

// GetProduct returns a single listing.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProduct(ctx, id)
}

// ListByCategory returns the listings in one category.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.ListProductsByCategory(ctx, category)
}

// Search filters the catalog by a case-insensitive match against name,
// description and category.
func (s *CatalogService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// FilterByPriceRange returns listings with min <= price <= max.
func (s *CatalogService) FilterByPriceRange(ctx context.Context, min, max int64) ([]*domain.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price >= min && p.Price <= max {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// AddProduct creates a new listing and returns its id.
func (s *CatalogService) AddProduct(ctx context.Context, product *domain.Product) (string, error) {
	if product.UploadedAt.IsZero() {
		product.UploadedAt = time.Now().UTC()
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return "", err
	}
	return product.ID, nil
}

// UpdateProduct applies a partial update to a listing.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, fields map[string]any) error {
	return s.products.UpdateProduct(ctx, id, fields)
}

// DeleteProduct removes a listing.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}
