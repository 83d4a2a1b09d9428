package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopping-assistant/internal/common/database"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

const (
	keyProducts   = "catalog:products"
	keyCategories = "catalog:categories"
)

func categoryKey(name string) string { return "catalog:category:" + name }
func productKey(id int) string       { return fmt.Sprintf("catalog:product:%d", id) }

// CachedProvider is a Redis read-through cache in front of another Provider.
// Empty results are never cached so a failed upstream fetch is retried on the next call.
type CachedProvider struct {
	next   Provider
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedProvider(next Provider, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		redis:  redis,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "catalog_cache"}),
	}
}

func (c *CachedProvider) ListAllProducts(ctx context.Context) []models.Product {
	var products []models.Product
	if c.lookup(ctx, keyProducts, &products) {
		return products
	}

	products = c.next.ListAllProducts(ctx)
	if len(products) > 0 {
		c.store(ctx, keyProducts, products)
	}
	return products
}

func (c *CachedProvider) GetProduct(ctx context.Context, id int) *models.Product {
	var product models.Product
	if c.lookup(ctx, productKey(id), &product) {
		return &product
	}

	found := c.next.GetProduct(ctx, id)
	if found != nil {
		c.store(ctx, productKey(id), found)
	}
	return found
}

func (c *CachedProvider) ListByCategory(ctx context.Context, name string) []models.Product {
	var products []models.Product
	if c.lookup(ctx, categoryKey(name), &products) {
		return products
	}

	products = c.next.ListByCategory(ctx, name)
	if len(products) > 0 {
		c.store(ctx, categoryKey(name), products)
	}
	return products
}

func (c *CachedProvider) ListCategories(ctx context.Context) []string {
	var categories []string
	if c.lookup(ctx, keyCategories, &categories) {
		return categories
	}

	categories = c.next.ListCategories(ctx)
	if len(categories) > 0 {
		c.store(ctx, keyCategories, categories)
	}
	return categories
}

func (c *CachedProvider) Search(ctx context.Context, query string, products []models.Product) []models.Product {
	return search(ctx, c, query, products)
}

// Invalidate drops every cached catalog entry written by this provider family.
func (c *CachedProvider) Invalidate(ctx context.Context) error {
	n, err := c.redis.DeleteMatching(ctx, "catalog:*", 100)
	if err != nil {
		return err
	}
	c.logger.Info("catalog cache invalidated", map[string]interface{}{"keys": n})
	return nil
}

func (c *CachedProvider) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := c.redis.GetJSON(ctx, key, dest)
	switch {
	case err == nil:
		metrics.CatalogCache.WithLabelValues("hit").Inc()
		return true
	case errors.Is(err, database.ErrCacheMiss):
		metrics.CatalogCache.WithLabelValues("miss").Inc()
	default:
		metrics.CatalogCache.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
	}
	return false
}

func (c *CachedProvider) store(ctx context.Context, key string, value interface{}) {
	if err := c.redis.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}
