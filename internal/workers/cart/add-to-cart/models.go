// internal/workers/cart/add-to-cart/models.go
package addtocart

import "shopping-assistant/internal/models"

type Input struct {
	CartID    string `json:"cartId"`
	ProductID int    `json:"productId"`
}

type Output struct {
	Cart         *models.Cart       `json:"cart"`
	Summary      models.CartSummary `json:"summary"`
	Confirmation string             `json:"confirmation"`
}
