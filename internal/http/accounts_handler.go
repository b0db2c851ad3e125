package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/checkout"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AccountsHandler struct {
	addresses repository.AddressRepository
	wishlist  repository.WishlistRepository
	profiles  repository.ProfileRepository
	timeout   time.Duration
}

func NewAccountsHandler(
	addresses repository.AddressRepository,
	wishlist repository.WishlistRepository,
	profiles repository.ProfileRepository,
	timeout time.Duration,
) *AccountsHandler {
	return &AccountsHandler{
		addresses: addresses,
		wishlist:  wishlist,
		profiles:  profiles,
		timeout:   timeout,
	}
}

// GET /api/v1/account/profile
func (h *AccountsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	profile, err := h.profiles.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GET /api/v1/account/addresses
func (h *AccountsHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	addresses, err := h.addresses.ListByUser(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list addresses")
		return
	}
	if addresses == nil {
		addresses = []*domain.Address{}
	}

	respondJSON(w, http.StatusOK, addresses)
}

// POST /api/v1/account/addresses
func (h *AccountsHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
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

	// Saved addresses pass the same schema as checkout addresses.
	if err := checkout.ValidateAddress(&addr); err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:  "address validation failed",
				Code:   "invalid_address",
				Fields: verr.Fields,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to validate address")
		return
	}

	addr.UserID = user.ID
	id, err := h.addresses.Create(ctx, &addr)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save address")
		return
	}
	addr.ID = id

	respondJSON(w, http.StatusCreated, addr)
}

// DELETE /api/v1/account/addresses/{addressID}
func (h *AccountsHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	err := h.addresses.Delete(ctx, user.ID, chi.URLParam(r, "addressID"))
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "address_not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete address")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/account/addresses/{addressID}/default
func (h *AccountsHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	err := h.addresses.SetDefault(ctx, user.ID, chi.URLParam(r, "addressID"))
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "address_not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to set default address")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/account/wishlist
func (h *AccountsHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	items, err := h.wishlist.ListByUser(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list wishlist")
		return
	}
	if items == nil {
		items = []*domain.WishlistItem{}
	}

	respondJSON(w, http.StatusOK, items)
}

type AddWishlistItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

// POST /api/v1/account/wishlist
func (h *AccountsHandler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req AddWishlistItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	id, err := h.wishlist.Add(ctx, user.ID, req.ProductID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add to wishlist")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DELETE /api/v1/account/wishlist/{itemID}
func (h *AccountsHandler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := requireUser(w, r)
	if user == nil {
		return
	}

	err := h.wishlist.Remove(ctx, user.ID, chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, repository.ErrWishlistNotFound) {
			respondError(w, http.StatusNotFound, "wishlist_item_not_found", "wishlist item not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove from wishlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
