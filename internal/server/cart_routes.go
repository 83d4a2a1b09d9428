package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shopping-assistant/internal/cart"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/models"

	"github.com/go-chi/chi/v5"
)

type cartView struct {
	Cart         *models.Cart       `json:"cart"`
	Summary      models.CartSummary `json:"summary"`
	Confirmation string             `json:"confirmation,omitempty"`
}

type addItemRequest struct {
	ProductID int `json:"productId"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (s *Server) view(c *models.Cart) cartView {
	return cartView{Cart: c, Summary: s.cart.Summarize(c)}
}

func (s *Server) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.cart.Get(r.Context(), cart.NewCartID())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.view(c))
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.cart.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(c))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.NewInputValidationError("invalid request body"))
		return
	}

	c, confirmation, err := s.cart.AddItem(r.Context(), chi.URLParam(r, "cartID"), req.ProductID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := s.view(c)
	v.Confirmation = confirmation
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.productIDParam(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		s.writeError(w, r, apperrors.NewInputValidationError("body must contain an integer quantity"))
		return
	}

	c, err := s.cart.UpdateQuantity(r.Context(), chi.URLParam(r, "cartID"), productID, *req.Quantity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(c))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.productIDParam(w, r)
	if !ok {
		return
	}

	c, err := s.cart.RemoveItem(r.Context(), chi.URLParam(r, "cartID"), productID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(c))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	order, err := s.cart.Checkout(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil || id <= 0 {
		s.writeError(w, r, apperrors.NewInputValidationError("product id must be a positive integer"))
		return 0, false
	}
	return id, true
}
