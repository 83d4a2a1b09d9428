package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"shopping-assistant/internal/common/config"
	apperrors "shopping-assistant/internal/common/errors"
	apphttp "shopping-assistant/internal/common/http"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

const (
	opListProducts   = "list_products"
	opGetProduct     = "get_product"
	opListByCategory = "list_by_category"
	opListCategories = "list_categories"
)

// FakeStoreProvider talks to a fakestoreapi.com compatible HTTP API.
type FakeStoreProvider struct {
	baseURL string
	client  *apphttp.Client
	logger  logger.Logger
}

func NewFakeStoreProvider(cfg config.CatalogConfig, log logger.Logger) *FakeStoreProvider {
	return NewFakeStoreProviderWithClient(
		cfg.BaseURL,
		apphttp.NewClient(config.GetDuration(cfg.Timeout), apphttp.WithMaxRetries(cfg.MaxRetries)),
		log,
	)
}

func NewFakeStoreProviderWithClient(baseURL string, client *apphttp.Client, log logger.Logger) *FakeStoreProvider {
	return &FakeStoreProvider{
		baseURL: baseURL,
		client:  client,
		logger:  log.With(map[string]interface{}{"component": "catalog"}),
	}
}

func (p *FakeStoreProvider) ListAllProducts(ctx context.Context) []models.Product {
	var products []models.Product
	if err := p.get(ctx, opListProducts, "/products", &products); err != nil {
		return []models.Product{}
	}
	return nonNil(products)
}

func (p *FakeStoreProvider) GetProduct(ctx context.Context, id int) *models.Product {
	var product *models.Product
	if err := p.get(ctx, opGetProduct, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil
	}
	// fakestoreapi answers 200 with a null body for unknown ids.
	if product == nil || product.ID == 0 {
		return nil
	}
	return product
}

func (p *FakeStoreProvider) ListByCategory(ctx context.Context, name string) []models.Product {
	var products []models.Product
	if err := p.get(ctx, opListByCategory, "/products/category/"+url.PathEscape(name), &products); err != nil {
		return []models.Product{}
	}
	return nonNil(products)
}

func (p *FakeStoreProvider) ListCategories(ctx context.Context) []string {
	var categories []string
	if err := p.get(ctx, opListCategories, "/products/categories", &categories); err != nil {
		return []string{}
	}
	if categories == nil {
		return []string{}
	}
	return categories
}

func (p *FakeStoreProvider) Search(ctx context.Context, query string, products []models.Product) []models.Product {
	return search(ctx, p, query, products)
}

func (p *FakeStoreProvider) get(ctx context.Context, operation, path string, out interface{}) error {
	err := p.client.GetJSON(ctx, p.baseURL+path, out)
	if err == nil {
		metrics.CatalogRequests.WithLabelValues(operation, "ok").Inc()
		return nil
	}

	stdErr := classify(operation, err)
	metrics.CatalogRequests.WithLabelValues(operation, string(stdErr.Code)).Inc()
	p.logger.Warn("catalog request failed", map[string]interface{}{
		"operation": operation,
		"path":      path,
		"errorCode": string(stdErr.Code),
		"error":     err,
	})
	return stdErr
}

func classify(operation string, err error) *apperrors.StandardError {
	var timeoutErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeoutErr) && timeoutErr.Timeout():
		return apperrors.NewCatalogTimeoutError(operation)
	case errors.Is(err, apphttp.ErrDecode):
		return apperrors.NewCatalogDecodeFailedError(operation, err)
	default:
		return apperrors.NewCatalogUnavailableError(operation, err)
	}
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
