package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/common/config"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"

	"github.com/google/uuid"
)

const addedFormat = "Great choice! I've added \"%s\" to your cart. This product has excellent customer reviews (%s/5 stars) and is very popular with our shoppers. Would you like to continue shopping or proceed to checkout?"

// Service applies cart operations on top of a Store. Mutations are serialised
// per process so concurrent adds to one cart do not lose items.
type Service struct {
	catalog  catalog.Provider
	store    Store
	taxRate  float64
	shipping float64
	logger   logger.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewService(provider catalog.Provider, store Store, cfg config.CartConfig, log logger.Logger) *Service {
	return &Service{
		catalog:  provider,
		store:    store,
		taxRate:  cfg.TaxRate,
		shipping: cfg.Shipping,
		logger:   log.With(map[string]interface{}{"component": "cart"}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewCartID returns a fresh random cart identifier.
func NewCartID() string {
	return uuid.NewString()
}

// Get returns the stored cart, or an empty one when nothing is stored under cartID.
func (s *Service) Get(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.load(ctx, cartID)
}

// AddItem adds one unit of productID and returns the updated cart together with
// the confirmation text shown to the shopper. An empty cartID starts a new cart.
func (s *Service) AddItem(ctx context.Context, cartID string, productID int) (*models.Cart, string, error) {
	if productID <= 0 {
		return nil, "", apperrors.NewInputValidationError("productId must be a positive integer")
	}

	product := s.catalog.GetProduct(ctx, productID)
	if product == nil {
		s.record("add", "not_found")
		return nil, "", apperrors.NewProductNotFoundError(productID)
	}

	if cartID == "" {
		cartID = NewCartID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, "", err
	}

	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity++
		c.Items[i].Product = *product
	} else {
		c.Items = append(c.Items, models.CartItem{Product: *product, Quantity: 1})
	}

	if err := s.save(ctx, c); err != nil {
		return nil, "", err
	}

	s.record("add", "success")
	s.logger.Info("item added to cart", map[string]interface{}{
		"cartId":    c.ID,
		"productId": productID,
		"itemCount": c.ItemCount(),
	})
	return c, Confirmation(*product), nil
}

// UpdateQuantity sets the quantity of an item already in the cart. Zero removes it.
func (s *Service) UpdateQuantity(ctx context.Context, cartID string, productID, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.NewInputValidationError("quantity must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	i := c.Find(productID)
	if i < 0 {
		s.record("update", "not_found")
		return nil, apperrors.NewCartItemNotFoundError(cartID, productID)
	}

	if quantity == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.record("update", "success")
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID string, productID int) (*models.Cart, error) {
	return s.UpdateQuantity(ctx, cartID, productID, 0)
}

// Summary computes the totals for the stored cart.
func (s *Service) Summary(ctx context.Context, cartID string) (models.CartSummary, error) {
	c, err := s.Get(ctx, cartID)
	if err != nil {
		return models.CartSummary{}, err
	}
	return s.Summarize(c), nil
}

// Summarize applies the tax rate to the subtotal and adds flat shipping when
// the cart has items. Every amount is rounded to cents.
func (s *Service) Summarize(c *models.Cart) models.CartSummary {
	subtotal := c.Subtotal()
	tax := models.RoundCents(subtotal * s.taxRate)

	shipping := 0.0
	if !c.IsEmpty() {
		shipping = models.RoundCents(s.shipping)
	}

	return models.CartSummary{
		ItemCount: c.ItemCount(),
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Total:     models.RoundCents(subtotal + tax + shipping),
	}
}

// Checkout places a simulated order and clears the cart. No payment is taken.
func (s *Service) Checkout(ctx context.Context, cartID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		s.record("checkout", "empty")
		return nil, apperrors.NewEmptyCartError(cartID)
	}

	order := &models.Order{
		ID:       uuid.NewString(),
		CartID:   c.ID,
		Items:    c.Items,
		Summary:  s.Summarize(c),
		PlacedAt: s.now(),
	}

	if err := s.store.Delete(ctx, cartID); err != nil {
		s.record("checkout", "error")
		return nil, apperrors.NewCartStoreFailedError(err)
	}

	s.record("checkout", "success")
	metrics.OrdersPlaced.Inc()
	s.logger.Info("order placed", map[string]interface{}{
		"cartId":  cartID,
		"orderId": order.ID,
		"total":   order.Summary.Total,
	})
	return order, nil
}

// Confirmation is the reply shown after a product lands in the cart.
func Confirmation(p models.Product) string {
	return fmt.Sprintf(addedFormat, p.Title, strconv.FormatFloat(p.Rating.Rate, 'f', -1, 64))
}

func (s *Service) load(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return nil, apperrors.NewInputValidationError("cartId is required")
	}
	c, err := s.store.Load(ctx, cartID)
	if errors.Is(err, ErrNotFound) {
		return &models.Cart{ID: cartID, Items: []models.CartItem{}, UpdatedAt: s.now()}, nil
	}
	if err != nil {
		s.logger.Error("cart load failed", map[string]interface{}{"cartId": cartID, "error": err.Error()})
		s.record("load", "error")
		return nil, apperrors.NewCartStoreFailedError(err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c *models.Cart) error {
	c.UpdatedAt = s.now()
	if err := s.store.Save(ctx, c); err != nil {
		s.logger.Error("cart save failed", map[string]interface{}{"cartId": c.ID, "error": err.Error()})
		s.record("save", "error")
		return apperrors.NewCartStoreFailedError(err)
	}
	return nil
}

func (s *Service) record(operation, status string) {
	metrics.CartOperations.WithLabelValues(operation, status).Inc()
}
