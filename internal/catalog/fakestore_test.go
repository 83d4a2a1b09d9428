package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	apphttp "shopping-assistant/internal/common/http"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Description: "Your perfect pack for everyday use", Category: "men's clothing", Rating: models.Rating{Rate: 3.9, Count: 120}},
		{ID: 2, Title: "Slim Fit T-Shirt", Price: 22.3, Description: "Slim-fitting style", Category: "men's clothing", Rating: models.Rating{Rate: 4.1, Count: 259}},
		{ID: 5, Title: "Dragon Station Chain Bracelet", Price: 695, Description: "From our Legends Collection", Category: "jewelery", Rating: models.Rating{Rate: 4.6, Count: 400}},
		{ID: 9, Title: "WD 2TB Elements Portable Hard Drive", Price: 64, Description: "USB 3.0 and USB 2.0 compatibility", Category: "electronics", Rating: models.Rating{Rate: 3.3, Count: 203}},
	}
}

func newCatalogServer(t *testing.T, products []models.Product) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(products)
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{"electronics", "jewelery", "men's clothing", "women's clothing"})
	})
	mux.HandleFunc("GET /products/category/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		out := []models.Product{}
		for _, p := range products {
			if p.Category == name {
				out = append(out, p)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		for _, p := range products {
			if p.ID == id {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		// fakestoreapi's behaviour for unknown ids
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestProvider(t *testing.T, baseURL string) *FakeStoreProvider {
	client := apphttp.NewClient(2*time.Second, apphttp.WithMaxRetries(1), apphttp.WithBaseBackoff(time.Millisecond))
	return NewFakeStoreProviderWithClient(baseURL, client, logger.NewTestLogger(t))
}

func TestFakeStoreProvider_ListAllProducts(t *testing.T) {
	server := newCatalogServer(t, fixtureProducts())
	provider := newTestProvider(t, server.URL)

	products := provider.ListAllProducts(context.Background())
	require.Len(t, products, 4)
	assert.Equal(t, "Fjallraven Backpack", products[0].Title)
	assert.Equal(t, 120, products[0].Rating.Count)
}

func TestFakeStoreProvider_GetProduct(t *testing.T) {
	server := newCatalogServer(t, fixtureProducts())
	provider := newTestProvider(t, server.URL)

	product := provider.GetProduct(context.Background(), 5)
	require.NotNil(t, product)
	assert.Equal(t, "jewelery", product.Category)

	assert.Nil(t, provider.GetProduct(context.Background(), 999))
}

func TestFakeStoreProvider_ListByCategory_EscapesName(t *testing.T) {
	server := newCatalogServer(t, fixtureProducts())
	provider := newTestProvider(t, server.URL)

	products := provider.ListByCategory(context.Background(), "men's clothing")
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "men's clothing", p.Category)
	}

	assert.Empty(t, provider.ListByCategory(context.Background(), "toys"))
}

func TestFakeStoreProvider_ListCategories(t *testing.T) {
	server := newCatalogServer(t, fixtureProducts())
	provider := newTestProvider(t, server.URL)

	assert.Equal(t,
		[]string{"electronics", "jewelery", "men's clothing", "women's clothing"},
		provider.ListCategories(context.Background()))
}

func TestFakeStoreProvider_FailuresBecomeEmpty(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	ctx := context.Background()

	products := provider.ListAllProducts(ctx)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.Nil(t, provider.GetProduct(ctx, 1))
	assert.Empty(t, provider.ListByCategory(ctx, "electronics"))
	assert.Empty(t, provider.ListCategories(ctx))

	// one retry per call
	assert.Equal(t, int32(8), atomic.LoadInt32(&calls))
}

func TestFakeStoreProvider_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)
	assert.Empty(t, provider.ListAllProducts(context.Background()))
}

func TestFakeStoreProvider_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	provider := newTestProvider(t, url)
	assert.Empty(t, provider.ListAllProducts(context.Background()))
}

func TestFakeStoreProvider_Search(t *testing.T) {
	server := newCatalogServer(t, fixtureProducts())
	provider := newTestProvider(t, server.URL)
	ctx := context.Background()

	fetched := provider.Search(ctx, "usb", nil)
	require.Len(t, fetched, 1)
	assert.Equal(t, 9, fetched[0].ID)

	// an explicit, even empty, list is used as-is
	assert.Empty(t, provider.Search(ctx, "usb", []models.Product{}))
}

func TestFilter(t *testing.T) {
	products := fixtureProducts()

	tests := []struct {
		name  string
		query string
		ids   []int
	}{
		{"title match is case-insensitive", "BACKPACK", []int{1}},
		{"description match", "legends", []int{5}},
		{"category match keeps catalog order", "men's", []int{1, 2}},
		{"substring across words", "slim-fit", []int{2}},
		{"no match", "shoes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(products, tt.query)
			ids := []int(nil)
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}
