package repository

import (
	"context"
	"errors"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrAddressNotFound  = errors.New("address not found")
	ErrWishlistNotFound = errors.New("wishlist item not found")
	ErrProfileNotFound  = errors.New("profile not found")
)

// CatalogRepository is the read interface over the products and
// categories collections.
type CatalogRepository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

// OrderRepository persists orders as a header document plus one document
// per line item. DeleteOrder exists only as the compensating action when
// the item batch fails after the header write.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateOrderItems(ctx context.Context, items []domain.OrderItem) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.Address, error)
	Create(ctx context.Context, addr *domain.Address) (string, error)
	Delete(ctx context.Context, userID, addressID string) error
	SetDefault(ctx context.Context, userID, addressID string) error
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (string, error)
	Remove(ctx context.Context, userID, itemID string) error
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Ensure(ctx context.Context, profile *domain.Profile) error
}
