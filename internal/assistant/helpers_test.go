package assistant

import (
	"context"
	"strings"
	"sync/atomic"

	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/models"
)

type stubProvider struct {
	products   []models.Product
	categories []string
	listCalls  atomic.Int32
	byCatCalls atomic.Int32
}

func (p *stubProvider) ListAllProducts(ctx context.Context) []models.Product {
	p.listCalls.Add(1)
	return p.products
}

func (p *stubProvider) GetProduct(ctx context.Context, id int) *models.Product {
	for _, prod := range p.products {
		if prod.ID == id {
			prod := prod
			return &prod
		}
	}
	return nil
}

func (p *stubProvider) ListByCategory(ctx context.Context, name string) []models.Product {
	p.byCatCalls.Add(1)
	out := []models.Product{}
	for _, prod := range p.products {
		if prod.Category == name {
			out = append(out, prod)
		}
	}
	return out
}

func (p *stubProvider) ListCategories(ctx context.Context) []string {
	return p.categories
}

func (p *stubProvider) Search(ctx context.Context, query string, products []models.Product) []models.Product {
	if products == nil {
		products = p.ListAllProducts(ctx)
	}
	return catalog.Filter(products, query)
}

// fixedRand always returns the same index, clamped to n.
type fixedRand int

func (f fixedRand) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func product(id int, title, category string, price, rate float64, count int) models.Product {
	return models.Product{
		ID:          id,
		Title:       title,
		Price:       price,
		Description: title + " description",
		Category:    category,
		Image:       "https://img.example/" + strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".jpg",
		Rating:      models.Rating{Rate: rate, Count: count},
	}
}

// testCatalog popularity (rate*count): 1=468, 2=1061.9, 3=146, 4=1840, 5=100, 6=1176.
func testCatalog() []models.Product {
	return []models.Product{
		product(1, "Fjallraven Backpack", "men's clothing", 109.95, 3.9, 120),
		product(2, "Slim Fit T-Shirt", "men's clothing", 22.3, 4.1, 259),
		product(3, "Gold Petite Micropave", "jewelery", 9.99, 2, 73),
		product(4, "Solid Gold Dragon Bracelet", "jewelery", 695, 4.6, 400),
		product(5, "SanDisk SSD PLUS 1TB", "electronics", 109, 2.5, 40),
		product(6, "Rain Jacket Women", "women's clothing", 39.99, 4.9, 240),
	}
}

func ids(products []models.Product) []int {
	out := []int{}
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
