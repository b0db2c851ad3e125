package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/Raj-3200/depthndecoy/internal/cache"
	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const relatedLimit = 3

// Sort orders for product listings. Featured and newest are stable
// partitions: the flagged products float to the front, everything else
// keeps its relative order.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNewest    = "newest"
)

// ListQuery narrows and orders a product listing. The repository filter
// drives the (cached) fetch; size, color, price range and sort are
// applied to the fetched set.
type ListQuery struct {
	domain.ProductFilter
	Size     string
	Color    string
	PriceMin float64
	PriceMax float64 // 0 means no upper bound
	Sort     string  // defaults to SortFeatured
}

type Service struct {
	repo  repository.CatalogRepository
	cache cache.CatalogCache
	log   *zap.Logger
	sfg   singleflight.Group // Prevents cache stampede on hot listings
}

func NewService(repo repository.CatalogRepository, c cache.CatalogCache, log *zap.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// ListProducts serves listings cache-first. Cache failures are logged and
// bypassed; the repository is the source of truth. Size, color, price and
// sort refinement happens on the fetched set so the cache stays keyed on
// the coarse repository filter.
func (s *Service) ListProducts(ctx context.Context, query ListQuery) ([]*domain.Product, error) {
	key := filterKey(query.ProductFilter)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, cacheErr := s.cache.GetProducts(ctx, key)
		if cacheErr == nil {
			return products, nil
		}
		if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			s.log.Warn("catalog cache get failed", zap.String("key", key), zap.Error(cacheErr))
		}

		products, repoErr := s.repo.ListProducts(ctx, query.ProductFilter)
		if repoErr != nil {
			return nil, repoErr
		}

		go func() {
			if setErr := s.cache.SetProducts(context.Background(), key, products); setErr != nil {
				s.log.Warn("catalog cache set failed", zap.String("key", key), zap.Error(setErr))
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return refine(v.([]*domain.Product), query), nil
}

// refine applies the in-memory listing predicates and sort. It never
// mutates the input slice; cached listings keep their stored order.
func refine(products []*domain.Product, query ListQuery) []*domain.Product {
	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if query.Size != "" && !slices.Contains(p.Sizes, query.Size) {
			continue
		}
		if query.Color != "" && !slices.Contains(p.Colors, query.Color) {
			continue
		}
		// Price ranges are half-open: min inclusive, max exclusive.
		if query.PriceMin > 0 && p.Price < query.PriceMin {
			continue
		}
		if query.PriceMax > 0 && p.Price >= query.PriceMax {
			continue
		}
		out = append(out, p)
	}

	switch query.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		out = partition(out, func(p *domain.Product) bool { return p.IsNew })
	default:
		out = partition(out, func(p *domain.Product) bool { return p.Featured })
	}
	return out
}

func partition(products []*domain.Product, first func(*domain.Product) bool) []*domain.Product {
	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if first(p) {
			out = append(out, p)
		}
	}
	for _, p := range products {
		if !first(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetProductBySlug(ctx, slug)
}

func (s *Service) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *Service) FeaturedProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.ListProducts(ctx, ListQuery{ProductFilter: domain.ProductFilter{Featured: true}})
}

func (s *Service) NewArrivals(ctx context.Context) ([]*domain.Product, error) {
	return s.ListProducts(ctx, ListQuery{ProductFilter: domain.ProductFilter{IsNew: true}})
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// RelatedProducts returns up to three in-stock products sharing the
// category, excluding the product itself.
func (s *Service) RelatedProducts(ctx context.Context, productID, categoryID string) ([]*domain.Product, error) {
	if categoryID == "" {
		return []*domain.Product{}, nil
	}

	all, err := s.repo.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}

	related := make([]*domain.Product, 0, relatedLimit)
	for _, p := range all {
		if p.CategoryID == categoryID && p.ID != productID {
			related = append(related, p)
			if len(related) == relatedLimit {
				break
			}
		}
	}
	return related, nil
}

func filterKey(f domain.ProductFilter) string {
	category := f.CategorySlug
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("products:%s:featured=%t:new=%t", category, f.Featured, f.IsNew)
}
