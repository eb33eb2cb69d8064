package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/backbonehq/catalog-service/internal/cache"
	"github.com/backbonehq/catalog-service/internal/client"
	"github.com/backbonehq/catalog-service/internal/domain"
	"github.com/backbonehq/catalog-service/internal/event"
	"github.com/backbonehq/catalog-service/internal/repository"
	apperrors "github.com/backbonehq/catalog-service/pkg/errors"
)

// Paging defaults applied when the caller omits page or size.
const (
	DefaultPage = 0
	DefaultSize = 10
)

// categoriesKey is the single key of the category-list region.
const categoriesKey = "all"

// CatalogService wraps the catalog store with process-local cache regions and
// enriches single-product reads with data from the review service.
//
// Three regions are maintained: single-product (keyed by id), product-page
// (keyed by page and size), and category-list (one constant key). Reads
// populate them lazily; writes clear them so a stale read past a completed
// write is impossible. By-category listings are always recomputed.
type CatalogService struct {
	repo      repository.ProductRepository
	reviews   client.ReviewFetcher
	publisher event.Publisher
	logger    *slog.Logger

	productCache  *cache.Region[int, domain.Product]
	pageCache     *cache.Region[cache.PageKey, []domain.Product]
	categoryCache *cache.Region[string, []string]
}

// NewCatalogService creates the aggregation service with empty cache regions.
func NewCatalogService(
	repo repository.ProductRepository,
	reviews client.ReviewFetcher,
	publisher event.Publisher,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:          repo,
		reviews:       reviews,
		publisher:     publisher,
		logger:        logger,
		productCache:  cache.NewRegion[int, domain.Product]("product"),
		pageCache:     cache.NewRegion[cache.PageKey, []domain.Product]("product-page"),
		categoryCache: cache.NewRegion[string, []string]("categories"),
	}
}

// GetProduct returns the product with the given id, with reviews attached
// when the review service has any. The cached entry never carries reviews;
// they are merged into a copy on every call, so the review service is
// consulted on every read regardless of cache state and its failures never
// poison the cache or fail the read.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	if id < 0 {
		return domain.Product{}, apperrors.InvalidInput("product id must not be negative")
	}

	product, err := cache.GetOrFetch(ctx, s.productCache, id, func(ctx context.Context) (domain.Product, error) {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return domain.Product{}, apperrors.NotFound("product", id)
			}
			return domain.Product{}, apperrors.Upstream(fmt.Errorf("get product %d: %w", id, err))
		}
		return *p, nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	reviews, err := s.reviews.FetchReviews(ctx, id)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "review fetch failed, serving product without reviews",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		return product, nil
	case len(reviews) == 0:
		s.logger.DebugContext(ctx, "no reviews for product",
			slog.Int("product_id", id),
		)
		return product, nil
	default:
		return product.WithReviews(reviews), nil
	}
}

// ListProducts returns one page of the catalog. A well-formed query beyond
// the available data fails with the no-content outcome, which is never
// cached.
func (s *CatalogService) ListProducts(ctx context.Context, page, size int) ([]domain.Product, error) {
	if page < 0 {
		return nil, apperrors.InvalidInput("page must not be negative")
	}
	if size < 1 {
		return nil, apperrors.InvalidInput("size must be at least 1")
	}

	return cache.GetOrFetch(ctx, s.pageCache, cache.PageKey{Page: page, Size: size}, func(ctx context.Context) ([]domain.Product, error) {
		products, err := s.repo.List(ctx, page, size)
		if err != nil {
			return nil, apperrors.Upstream(fmt.Errorf("list products page=%d size=%d: %w", page, size, err))
		}
		if len(products) == 0 {
			return nil, apperrors.NoContent(fmt.Sprintf("no products in page %d", page))
		}
		return products, nil
	})
}

// ListCategories returns the distinct category strings in store order.
// An empty catalog surfaces as not-found.
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return cache.GetOrFetch(ctx, s.categoryCache, categoriesKey, func(ctx context.Context) ([]string, error) {
		categories, err := s.repo.DistinctCategories(ctx)
		if err != nil {
			return nil, apperrors.Upstream(fmt.Errorf("list categories: %w", err))
		}
		if len(categories) == 0 {
			return nil, apperrors.NotFound("categories", "any")
		}
		return categories, nil
	})
}

// ListByCategory returns one page of products in the given category. This
// path is always recomputed; no region caches it.
func (s *CatalogService) ListByCategory(ctx context.Context, category string, page, size int) ([]domain.Product, error) {
	if category == "" {
		return nil, apperrors.InvalidInput("category must not be empty")
	}
	if page < 0 {
		return nil, apperrors.InvalidInput("page must not be negative")
	}
	if size < 1 {
		return nil, apperrors.InvalidInput("size must be at least 1")
	}

	products, err := s.repo.ListByCategory(ctx, category, page, size)
	if err != nil {
		return nil, apperrors.Upstream(fmt.Errorf("list products by category %q: %w", category, err))
	}
	if len(products) == 0 {
		return nil, apperrors.NoContent(fmt.Sprintf("no products in category %q page %d", category, page))
	}

	return products, nil
}

// SaveProduct upserts the product. A zero id lets the store assign one; a
// present id overwrites. Any reviews on the payload are stripped before the
// write. After the store call succeeds, all three regions are cleared so no
// reader past this point sees pre-write state.
func (s *CatalogService) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID < 0 {
		return domain.Product{}, apperrors.InvalidInput("product id must not be negative")
	}
	if p.Title == "" {
		return domain.Product{}, apperrors.InvalidInput("product title is required")
	}

	p.Reviews = nil

	if err := s.repo.Upsert(ctx, &p); err != nil {
		return domain.Product{}, apperrors.Upstream(fmt.Errorf("save product: %w", err))
	}

	s.productCache.Clear()
	s.pageCache.Clear()
	s.categoryCache.Clear()

	if s.publisher != nil {
		if err := s.publisher.PublishProductSaved(ctx, &p); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.saved event",
				slog.Int("product_id", p.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "product saved",
		slog.Int("product_id", p.ID),
		slog.String("category", p.Category),
	)

	return p, nil
}

// DeleteProduct removes the product with the given id. Deleting an absent id
// succeeds; the store's silent no-op is accepted. The affected id is evicted
// from the single-product region and the page and category regions are
// cleared.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	if id < 0 {
		return apperrors.InvalidInput("product id must not be negative")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Upstream(fmt.Errorf("delete product %d: %w", id, err))
	}

	s.productCache.Evict(id)
	s.pageCache.Clear()
	s.categoryCache.Clear()

	if s.publisher != nil {
		if err := s.publisher.PublishProductDeleted(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
				slog.Int("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int("product_id", id))

	return nil
}
