package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Raj-3200/depthndecoy/internal/cache"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/google/uuid"
)

func contextWithRouteParams(r *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
}

// fakeCatalogRepo serves a fixed product list.
type fakeCatalogRepo struct {
	products   []*domain.Product
	categories []*domain.Category
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if !p.InStock {
			continue
		}
		if filter.Featured && !p.Featured {
			continue
		}
		if filter.IsNew && !p.IsNew {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (f *fakeCatalogRepo) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (f *fakeCatalogRepo) ListCategories(context.Context) ([]*domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogRepo) GetCategoryBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

// noopCache never hits.
type noopCache struct{}

func (noopCache) GetProducts(context.Context, string) ([]*domain.Product, error) {
	return nil, cache.ErrCacheMiss
}
func (noopCache) SetProducts(context.Context, string, []*domain.Product) error { return nil }
func (noopCache) Delete(context.Context, string) error                         { return nil }

// fakeOrderRepo keeps orders in memory.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	items  map[uuid.UUID][]domain.OrderItem
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]*domain.Order),
		items:  make(map[uuid.UUID][]domain.OrderItem),
	}
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.CreatedAt = time.Now()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) CreateOrderItems(_ context.Context, items []domain.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		f.items[item.OrderID] = append(f.items[item.OrderID], item)
	}
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	delete(f.items, id)
	return nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) GetOrderItems(_ context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) ListOrdersByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

// fakeProfileRepo records Ensure calls.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Get(_ context.Context, userID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) Ensure(_ context.Context, profile *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[profile.UserID]; !ok {
		f.profiles[profile.UserID] = profile
	}
	return nil
}

// fakeAddressRepo keeps addresses per user.
type fakeAddressRepo struct {
	mu        sync.Mutex
	addresses map[string]*domain.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[string]*domain.Address)}
}

func (f *fakeAddressRepo) ListByUser(_ context.Context, userID string) ([]*domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Address
	for _, addr := range f.addresses {
		if addr.UserID == userID {
			out = append(out, addr)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) Create(_ context.Context, addr *domain.Address) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.NewString()
	stored := *addr
	stored.ID = id
	f.addresses[id] = &stored
	return id, nil
}

func (f *fakeAddressRepo) Delete(_ context.Context, userID, addressID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr, ok := f.addresses[addressID]
	if !ok || addr.UserID != userID {
		return repository.ErrAddressNotFound
	}
	delete(f.addresses, addressID)
	return nil
}

func (f *fakeAddressRepo) SetDefault(_ context.Context, userID, addressID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.addresses[addressID]
	if !ok || target.UserID != userID {
		return repository.ErrAddressNotFound
	}
	for _, addr := range f.addresses {
		if addr.UserID == userID {
			addr.IsDefault = false
		}
	}
	target.IsDefault = true
	return nil
}

// fakeWishlistRepo keeps wishlist items per user.
type fakeWishlistRepo struct {
	mu    sync.Mutex
	items map[string]*domain.WishlistItem
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{items: make(map[string]*domain.WishlistItem)}
}

func (f *fakeWishlistRepo) ListByUser(_ context.Context, userID string) ([]*domain.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.WishlistItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeWishlistRepo) Add(_ context.Context, userID, productID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			return id, nil
		}
	}
	id := uuid.NewString()
	f.items[id] = &domain.WishlistItem{ID: id, UserID: userID, ProductID: productID}
	return id, nil
}

func (f *fakeWishlistRepo) Remove(_ context.Context, userID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok || item.UserID != userID {
		return repository.ErrWishlistNotFound
	}
	delete(f.items, itemID)
	return nil
}
