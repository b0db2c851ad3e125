package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/cart"
	"github.com/Raj-3200/depthndecoy/internal/checkout"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	carts    *cart.Manager
	timeout  time.Duration
}

func NewCheckoutHandler(svc *checkout.Service, carts *cart.Manager, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, carts: carts, timeout: timeout}
}

type StartCheckoutRequestDTO struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type CheckoutResponseDTO struct {
	CheckoutID string `json:"checkout_id"`
	Status     string `json:"status"`
}

type QuoteResponseDTO struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
	Currency   string  `json:"currency"`
}

type PlaceOrderResponseDTO struct {
	Outcome string `json:"outcome"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req StartCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.IdempotencyKey == "" {
		respondError(w, http.StatusBadRequest, "missing_idempotency_key", "idempotency_key is required")
		return
	}

	session, err := h.checkout.Start(ctx, user.ID, req.IdempotencyKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to start checkout")
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		CheckoutID: session.ID,
		Status:     session.Status.String(),
	})
}

// PUT /api/v1/checkout/{checkoutID}/address
func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session, err := h.checkout.SubmitAddress(ctx, chi.URLParam(r, "checkoutID"), user.ID, &addr)
	if err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:  "address validation failed",
				Code:   "invalid_address",
				Fields: verr.Fields,
			})
			return
		}
		h.respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		CheckoutID: session.ID,
		Status:     session.Status.String(),
	})
}

// GET /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	totals := h.checkout.Quote(h.carts.Get(cartKey(r)))
	respondJSON(w, http.StatusOK, QuoteResponseDTO{
		Subtotal:   totals.Subtotal,
		Shipping:   totals.Shipping,
		Tax:        totals.Tax,
		GrandTotal: totals.GrandTotal,
		Currency:   totals.Currency,
	})
}

// POST /api/v1/checkout/{checkoutID}/pay
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	store := h.carts.Get(cartKey(r))
	result, err := h.checkout.PlaceOrder(ctx, chi.URLParam(r, "checkoutID"), user.ID, user.Email, store)
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == checkout.OutcomePlaced {
		status = http.StatusCreated
	}
	respondJSON(w, status, PlaceOrderResponseDTO{
		Outcome: string(result.Outcome),
		OrderID: result.OrderID,
		Message: result.Message,
	})
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "checkout_not_found", "checkout session not found")
	case errors.Is(err, checkout.ErrSessionOwnerMismatch):
		respondError(w, http.StatusForbidden, "forbidden", "checkout session belongs to another user")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrAddressRequired):
		respondError(w, http.StatusConflict, "address_required", "shipping address must be submitted first")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_state", "checkout is not in a state that allows this step")
	default:
		respondError(w, http.StatusBadGateway, "checkout_failed", "checkout could not be completed, please retry")
	}
}
