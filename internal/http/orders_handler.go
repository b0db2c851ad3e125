package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrdersHandler struct {
	orders  repository.OrderRepository
	timeout time.Duration
}

func NewOrdersHandler(orders repository.OrderRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: orders, timeout: timeout}
}

type OrderWithItemsDTO struct {
	*domain.Order
	Items []domain.OrderItem `json:"items"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	orders, err := h.orders.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{orderID}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get order")
		return
	}
	// A customer's order history is theirs alone.
	if order.UserID != user.ID {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}

	items, err := h.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get order items")
		return
	}

	respondJSON(w, http.StatusOK, OrderWithItemsDTO{Order: order, Items: items})
}
