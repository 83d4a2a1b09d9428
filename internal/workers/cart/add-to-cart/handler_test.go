package addtocart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shopping-assistant/internal/cart"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/models"
	"shopping-assistant/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddItem(ctx context.Context, cartID string, productID int) (*models.Cart, string, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Cart), args.String(1), args.Error(2)
}

func (m *MockCartService) Summarize(c *models.Cart) models.CartSummary {
	args := m.Called(c)
	return args.Get(0).(models.CartSummary)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "shopping-chat",
		ElementId:          "Activity_AddToCart",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}
	return entities.Job{ActivatedJob: activatedJob}
}

func newTestHandler(t *testing.T, carts CartService) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Carts:        carts,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{name: "defaults", opts: HandlerOptions{Carts: &MockCartService{}}},
		{name: "missing cart service", opts: HandlerOptions{}, wantErr: "cart service is required"},
		{
			name:    "invalid timeout",
			opts:    HandlerOptions{Carts: &MockCartService{}, CustomConfig: &Config{MaxJobsActive: 1}},
			wantErr: "timeout must be positive",
		},
		{
			name:    "task type missing from registry",
			opts:    HandlerOptions{Carts: &MockCartService{}, Registry: &registry.ActivityRegistry{}},
			wantErr: "not present in activity registry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, handler.IsEnabled())
			assert.Equal(t, 10, handler.GetConfig().MaxJobsActive)
		})
	}
}

func TestHandler_ConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, MaxJobsActive: 2, Timeout: 30000},
	}}

	h, err := NewHandler(HandlerOptions{AppConfig: appCfg, Carts: &MockCartService{}, Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)
	assert.Equal(t, 2, h.GetConfig().MaxJobsActive)
	assert.Equal(t, 30*time.Second, h.GetConfig().Timeout)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t, &MockCartService{})

	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
		want      Input
	}{
		{"valid", map[string]interface{}{"cartId": "c-1", "productId": 3}, false, Input{CartID: "c-1", ProductID: 3}},
		{"missing cartId", map[string]interface{}{"productId": 3}, true, Input{}},
		{"empty cartId", map[string]interface{}{"cartId": "", "productId": 3}, true, Input{}},
		{"missing productId", map[string]interface{}{"cartId": "c-1"}, true, Input{}},
		{"zero productId", map[string]interface{}{"cartId": "c-1", "productId": 0}, true, Input{}},
		{"fractional productId", map[string]interface{}{"cartId": "c-1", "productId": 1.5}, true, Input{}},
		{"string productId", map[string]interface{}{"cartId": "c-1", "productId": "3"}, true, Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := handler.parseInput(createMockJob(1, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInputValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *input)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	c := &models.Cart{ID: "c-1", Items: []models.CartItem{{Product: models.Product{ID: 3, Price: 55.99}, Quantity: 1}}}
	summary := models.CartSummary{ItemCount: 1, Subtotal: 55.99, Tax: 4.48, Shipping: 5.99, Total: 66.46}

	m := &MockCartService{}
	m.On("AddItem", mock.Anything, "c-1", 3).Return(c, "Great choice!", nil)
	m.On("Summarize", c).Return(summary)
	handler := newTestHandler(t, m)

	out, err := handler.Execute(context.Background(), &Input{CartID: "c-1", ProductID: 3})
	require.NoError(t, err)
	assert.Same(t, c, out.Cart)
	assert.Equal(t, summary, out.Summary)
	assert.Equal(t, "Great choice!", out.Confirmation)
	m.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode errors.ErrorCode
	}{
		{"unknown product", errors.NewProductNotFoundError(99), errors.ErrCodeProductNotFound},
		{"store down", errors.NewCartStoreFailedError(assert.AnError), errors.ErrCodeCartStoreFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockCartService{}
			m.On("AddItem", mock.Anything, "c-1", 99).Return(nil, "", tt.err)
			handler := newTestHandler(t, m)

			out, err := handler.Execute(context.Background(), &Input{CartID: "c-1", ProductID: 99})
			assert.Nil(t, out)
			assert.True(t, errors.HasCode(err, tt.wantCode))
			m.AssertNotCalled(t, "Summarize", mock.Anything)
		})
	}
}

func TestHandler_Execute_ProductNotFoundIsBusinessError(t *testing.T) {
	bpmnErr := errors.ConvertToBPMNError(errors.NewProductNotFoundError(99))
	assert.Equal(t, "PRODUCT_NOT_FOUND", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
}

func TestHandler_Execute_MissingCartID(t *testing.T) {
	m := &MockCartService{}
	handler := newTestHandler(t, m)

	for _, in := range []*Input{nil, {ProductID: 1}} {
		_, err := handler.Execute(context.Background(), in)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInputValidation))
	}
	m.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}

// Against the real service and an in-memory store.
func TestHandler_Execute_RealService(t *testing.T) {
	svc := cart.NewService(singleProduct{}, cart.NewMemoryStore(),
		config.CartConfig{TaxRate: 0.08, Shipping: 5.99}, logger.NewTestLogger(t))
	handler := newTestHandler(t, svc)

	out, err := handler.Execute(context.Background(), &Input{CartID: "c-7", ProductID: 1})
	require.NoError(t, err)
	assert.Equal(t, "c-7", out.Cart.ID)
	assert.Equal(t, 1, out.Summary.ItemCount)
	assert.Equal(t, 10.0, out.Summary.Subtotal)
	assert.Contains(t, out.Confirmation, `"Ring"`)

	_, err = handler.Execute(context.Background(), &Input{CartID: "c-7", ProductID: 2})
	assert.True(t, errors.HasCode(err, errors.ErrCodeProductNotFound))
}

type singleProduct struct{}

func (singleProduct) GetProduct(ctx context.Context, id int) *models.Product {
	if id != 1 {
		return nil
	}
	return &models.Product{ID: 1, Title: "Ring", Price: 10, Rating: models.Rating{Rate: 4, Count: 10}}
}

func (singleProduct) ListAllProducts(ctx context.Context) []models.Product { return nil }

func (singleProduct) ListByCategory(ctx context.Context, name string) []models.Product { return nil }

func (singleProduct) ListCategories(ctx context.Context) []string { return nil }

func (singleProduct) Search(ctx context.Context, q string, p []models.Product) []models.Product {
	return nil
}
