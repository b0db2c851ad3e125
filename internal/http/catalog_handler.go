package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/catalog"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewCatalogHandler(svc *catalog.Service, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: svc, timeout: timeout}
}

// GET /api/v1/products?category=men&featured=true&new=true
//
//	&size=M&color=Black&price_min=100&price_max=250&sort=price-asc
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	query := catalog.ListQuery{
		ProductFilter: domain.ProductFilter{
			CategorySlug: q.Get("category"),
			Featured:     q.Get("featured") == "true",
			IsNew:        q.Get("new") == "true",
		},
		Size:  q.Get("size"),
		Color: q.Get("color"),
		Sort:  q.Get("sort"),
	}

	var perr error
	if query.PriceMin, perr = parsePrice(q.Get("price_min")); perr != nil {
		respondError(w, http.StatusBadRequest, "invalid_price", "price_min must be a non-negative number")
		return
	}
	if query.PriceMax, perr = parsePrice(q.Get("price_max")); perr != nil {
		respondError(w, http.StatusBadRequest, "invalid_price", "price_max must be a non-negative number")
		return
	}

	products, err := h.catalog.ListProducts(ctx, query)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "category_not_found", "category not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return v, nil
}

// GET /api/v1/products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	product, err := h.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/products/{slug}/related
func (h *CatalogHandler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	product, err := h.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get product")
		return
	}

	related, err := h.catalog.RelatedProducts(ctx, product.ID, product.CategoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get related products")
		return
	}

	respondJSON(w, http.StatusOK, related)
}

// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list categories")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}
