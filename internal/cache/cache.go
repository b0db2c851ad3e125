package cache

import (
	"context"
	"errors"

	"github.com/Raj-3200/depthndecoy/internal/domain"
)

// CatalogCache caches product listings keyed by their filter. The cache
// is an accelerator only; every caller must be able to fall back to the
// repository.
type CatalogCache interface {
	GetProducts(ctx context.Context, key string) ([]*domain.Product, error)
	SetProducts(ctx context.Context, key string, products []*domain.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
