package catalog

import (
	"context"
	"testing"
	"time"

	"shopping-assistant/internal/common/database"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records upstream calls so cache hits can be asserted.
type countingProvider struct {
	products   []models.Product
	categories []string
	calls      map[string]int
}

func newCountingProvider(products []models.Product) *countingProvider {
	return &countingProvider{
		products:   products,
		categories: []string{"electronics", "jewelery"},
		calls:      map[string]int{},
	}
}

func (p *countingProvider) ListAllProducts(ctx context.Context) []models.Product {
	p.calls["all"]++
	return p.products
}

func (p *countingProvider) GetProduct(ctx context.Context, id int) *models.Product {
	p.calls["get"]++
	for _, prod := range p.products {
		if prod.ID == id {
			prod := prod
			return &prod
		}
	}
	return nil
}

func (p *countingProvider) ListByCategory(ctx context.Context, name string) []models.Product {
	p.calls["category"]++
	out := []models.Product{}
	for _, prod := range p.products {
		if prod.Category == name {
			out = append(out, prod)
		}
	}
	return out
}

func (p *countingProvider) ListCategories(ctx context.Context) []string {
	p.calls["categories"]++
	return p.categories
}

func (p *countingProvider) Search(ctx context.Context, query string, products []models.Product) []models.Product {
	return search(ctx, p, query, products)
}

func setupCache(t *testing.T, upstream Provider) (*CachedProvider, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewCachedProvider(upstream, rdb, 5*time.Minute, logger.NewTestLogger(t)), mr
}

func TestCachedProvider_ReadThrough(t *testing.T) {
	upstream := newCountingProvider(fixtureProducts())
	cache, mr := setupCache(t, upstream)
	ctx := context.Background()

	first := cache.ListAllProducts(ctx)
	second := cache.ListAllProducts(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.calls["all"])
	assert.True(t, mr.Exists("catalog:products"))
	assert.Equal(t, 5*time.Minute, mr.TTL("catalog:products"))
}

func TestCachedProvider_CategoryAndProductKeys(t *testing.T) {
	upstream := newCountingProvider(fixtureProducts())
	cache, mr := setupCache(t, upstream)
	ctx := context.Background()

	require.Len(t, cache.ListByCategory(ctx, "jewelery"), 1)
	require.Len(t, cache.ListByCategory(ctx, "jewelery"), 1)
	assert.Equal(t, 1, upstream.calls["category"])
	assert.True(t, mr.Exists("catalog:category:jewelery"))

	product := cache.GetProduct(ctx, 9)
	require.NotNil(t, product)
	cached := cache.GetProduct(ctx, 9)
	require.NotNil(t, cached)
	assert.Equal(t, product.Title, cached.Title)
	assert.Equal(t, 1, upstream.calls["get"])
	assert.True(t, mr.Exists("catalog:product:9"))

	assert.Equal(t, []string{"electronics", "jewelery"}, cache.ListCategories(ctx))
	cache.ListCategories(ctx)
	assert.Equal(t, 1, upstream.calls["categories"])
}

func TestCachedProvider_EmptyResultsNotCached(t *testing.T) {
	upstream := newCountingProvider(nil)
	cache, mr := setupCache(t, upstream)
	ctx := context.Background()

	assert.Empty(t, cache.ListAllProducts(ctx))
	assert.Empty(t, cache.ListAllProducts(ctx))
	assert.Equal(t, 2, upstream.calls["all"])
	assert.False(t, mr.Exists("catalog:products"))

	assert.Nil(t, cache.GetProduct(ctx, 1))
	assert.False(t, mr.Exists("catalog:product:1"))
}

func TestCachedProvider_RedisDownFallsThrough(t *testing.T) {
	upstream := newCountingProvider(fixtureProducts())
	cache, mr := setupCache(t, upstream)
	mr.Close()

	products := cache.ListAllProducts(context.Background())
	assert.Len(t, products, 4)
	assert.Equal(t, 1, upstream.calls["all"])
}

func TestCachedProvider_CorruptEntryRefetches(t *testing.T) {
	upstream := newCountingProvider(fixtureProducts())
	cache, mr := setupCache(t, upstream)
	require.NoError(t, mr.Set("catalog:products", "not-json"))

	assert.Len(t, cache.ListAllProducts(context.Background()), 4)
	assert.Equal(t, 1, upstream.calls["all"])
}

func TestCachedProvider_Invalidate(t *testing.T) {
	upstream := newCountingProvider(fixtureProducts())
	cache, mr := setupCache(t, upstream)
	ctx := context.Background()

	cache.ListAllProducts(ctx)
	cache.ListCategories(ctx)
	require.NoError(t, mr.Set("cart:abc", "{}"))

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("catalog:products"))
	assert.False(t, mr.Exists("catalog:categories"))
	assert.True(t, mr.Exists("cart:abc"))

	cache.ListAllProducts(ctx)
	assert.Equal(t, 2, upstream.calls["all"])
}

func TestCachedProvider_SearchUsesCache(t *testing.T) {
	upstream := newCountingProvider(fixtureProducts())
	cache, _ := setupCache(t, upstream)
	ctx := context.Background()

	cache.Search(ctx, "usb", nil)
	results := cache.Search(ctx, "usb", nil)
	require.Len(t, results, 1)
	assert.Equal(t, 1, upstream.calls["all"])
}
