package models

import (
	"math"
	"time"
)

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price * quantity rounded to cents.
func (i CartItem) LineTotal() float64 {
	return RoundCents(i.Product.Price * float64(i.Quantity))
}

type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return RoundCents(total)
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Find returns the index of the item holding productID, or -1.
func (c *Cart) Find(productID int) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

type CartSummary struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
}

// Order is the result of a simulated checkout. No payment is taken.
type Order struct {
	ID       string      `json:"id"`
	CartID   string      `json:"cartId"`
	Items    []CartItem  `json:"items"`
	Summary  CartSummary `json:"summary"`
	PlacedAt time.Time   `json:"placedAt"`
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
