package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.catalog.ListAllProducts(r.Context())))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.catalog.ListCategories(r.Context())
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	writeJSON(w, http.StatusOK, nonNil(s.catalog.ListByCategory(r.Context(), name)))
}

// handleSearchProducts searches the session snapshot when one is loaded.
func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeError(w, r, apperrors.NewInputValidationError("query parameter q is required"))
		return
	}

	var products []models.Product
	if snapshot := s.assistant.Snapshot(); len(snapshot) > 0 {
		products = snapshot
	}
	writeJSON(w, http.StatusOK, nonNil(s.catalog.Search(r.Context(), q, products)))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.writeError(w, r, apperrors.NewInputValidationError("product id must be a positive integer"))
		return
	}

	product := s.catalog.GetProduct(r.Context(), id)
	if product == nil {
		s.writeError(w, r, apperrors.NewProductNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// pathParam returns the decoded URL parameter. chi routes on r.URL.RawPath when
// it is set, so only then is the parameter still escaped; otherwise it was
// decoded once already and must not be unescaped again.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
