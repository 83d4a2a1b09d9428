package assistant

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/models"
)

const MaxSuggestions = 3

// popularContext labels a selection that fell back to the most popular products.
const popularContext = "popular items"

// Engine selects and ranks products. It never mutates the snapshot it is given.
type Engine struct {
	provider catalog.Provider
}

func NewEngine(provider catalog.Provider) *Engine {
	return &Engine{provider: provider}
}

// Popular ranks by rating.rate * rating.count, highest first.
func (e *Engine) Popular(snapshot []models.Product) []models.Product {
	ranked := clone(snapshot)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Popularity() > ranked[j].Popularity()
	})
	return top(ranked)
}

// Search keeps catalog order among matches.
func (e *Engine) Search(ctx context.Context, snapshot []models.Product, query string) []models.Product {
	if snapshot == nil {
		snapshot = []models.Product{}
	}
	return top(e.provider.Search(ctx, query, snapshot))
}

// ByCategory asks the provider and keeps its order. An empty snapshot means the
// catalog is unreachable, so the provider is not consulted.
func (e *Engine) ByCategory(ctx context.Context, snapshot []models.Product, category string) []models.Product {
	if len(snapshot) == 0 {
		return []models.Product{}
	}
	return top(e.provider.ListByCategory(ctx, category))
}

// ByPriceRange filters to [Min, Max] inclusive and ranks by rating.rate.
func (e *Engine) ByPriceRange(snapshot []models.Product, r PriceRange) []models.Product {
	filtered := make([]models.Product, 0)
	for _, p := range snapshot {
		if r.Contains(p.Price) {
			filtered = append(filtered, p)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rating.Rate > filtered[j].Rating.Rate
	})
	return top(filtered)
}

// Recommend dispatches on q.Intent and returns the selection together with
// the context label handed to the formatter.
func (e *Engine) Recommend(ctx context.Context, snapshot []models.Product, q Query) ([]models.Product, string) {
	switch q.Intent {
	case IntentSearch:
		return e.Search(ctx, snapshot, q.Search), q.Search
	case IntentCategory:
		return e.ByCategory(ctx, snapshot, q.Category), q.Category + " products"
	case IntentPriceInquiry:
		return e.ByPriceRange(snapshot, q.Price), fmt.Sprintf("products under $%s", formatNumber(q.Price.Max))
	case IntentGeneral:
		if found := e.Search(ctx, snapshot, q.Search); len(found) > 0 {
			return found, q.Search
		}
		return e.Popular(snapshot), popularContext
	default:
		return e.Popular(snapshot), popularContext
	}
}

func clone(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

func top(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	if len(products) > MaxSuggestions {
		return products[:MaxSuggestions]
	}
	return products
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
