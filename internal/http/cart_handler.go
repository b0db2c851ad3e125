package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/cart"
	"github.com/Raj-3200/depthndecoy/internal/catalog"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/go-chi/chi/v5"
)

// CartHandler serves the session cart. Guests shop under an
// X-Session-ID header; signed-in customers fall back to their user id
// so the cart follows them across devices.
type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(carts *cart.Manager, svc *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{carts: carts, catalog: svc, timeout: timeout}
}

type AddCartItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type CartResponseDTO struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
}

func cartKey(r *http.Request) string {
	if sessionID := r.Header.Get("X-Session-ID"); sessionID != "" {
		return sessionID
	}
	if user := userFromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	key := cartKey(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header or authentication required")
		return
	}

	store := h.carts.Get(key)
	respondJSON(w, http.StatusOK, CartResponseDTO{Lines: store.Lines(), Total: store.Total()})
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	key := cartKey(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header or authentication required")
		return
	}

	var req AddCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Price and name come from the catalog, never from the client.
	product, err := h.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to look up product")
		return
	}
	if !product.InStock {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	store := h.carts.Get(key)
	store.AddLine(domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     image,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})

	respondJSON(w, http.StatusOK, CartResponseDTO{Lines: store.Lines(), Total: store.Total()})
}

// PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	key := cartKey(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header or authentication required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	// Quantity below 1 removes the line.
	store := h.carts.Get(key)
	store.SetQuantity(chi.URLParam(r, "productID"), req.Size, req.Quantity)

	respondJSON(w, http.StatusOK, CartResponseDTO{Lines: store.Lines(), Total: store.Total()})
}

// DELETE /api/v1/cart/items/{productID}?size=M
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key := cartKey(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header or authentication required")
		return
	}

	store := h.carts.Get(key)
	store.RemoveLine(chi.URLParam(r, "productID"), r.URL.Query().Get("size"))

	respondJSON(w, http.StatusOK, CartResponseDTO{Lines: store.Lines(), Total: store.Total()})
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	key := cartKey(r)
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header or authentication required")
		return
	}

	h.carts.Get(key).Clear()
	respondJSON(w, http.StatusOK, CartResponseDTO{Lines: []domain.CartLine{}, Total: 0})
}
