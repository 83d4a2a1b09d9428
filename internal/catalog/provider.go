// Package catalog provides read-only access to the product catalog.
//
// Providers never return errors: transport, status and decode failures are
// logged and surface as an empty slice (or nil product).
package catalog

import (
	"context"
	"strings"

	"shopping-assistant/internal/models"
)

type Provider interface {
	ListAllProducts(ctx context.Context) []models.Product
	// GetProduct returns nil when the product is absent or the lookup failed.
	GetProduct(ctx context.Context, id int) *models.Product
	ListByCategory(ctx context.Context, name string) []models.Product
	ListCategories(ctx context.Context) []string
	// Search filters products, fetching the full catalog when products is nil.
	Search(ctx context.Context, query string, products []models.Product) []models.Product
}

// Filter returns products whose title, description or category contains query,
// case-insensitively, in their original order.
func Filter(products []models.Product, query string) []models.Product {
	term := strings.ToLower(query)

	matches := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

func search(ctx context.Context, p Provider, query string, products []models.Product) []models.Product {
	if products == nil {
		products = p.ListAllProducts(ctx)
	}
	return Filter(products, query)
}
