package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/backbonehq/catalog-service/internal/domain"
	"github.com/backbonehq/catalog-service/pkg/httpclient"
)

// ReviewFetcher is the capability the aggregation service depends on. A nil
// slice with a nil error means the review service has no data for the
// product, which callers treat the same as a fetch failure: no reviews.
type ReviewFetcher interface {
	FetchReviews(ctx context.Context, productID int) ([]domain.Review, error)
}

// ReviewClientConfig configures the HTTP review client.
type ReviewClientConfig struct {
	// BaseURL of the review service, e.g. "http://localhost:8084".
	BaseURL string

	// Timeout bounds each review fetch so a slow review service cannot
	// exhaust the handler's concurrency budget.
	Timeout time.Duration

	// CacheTTL and CacheCapacity size the client's own review cache. The
	// catalog never invalidates this cache; entries simply age out.
	CacheTTL      time.Duration
	CacheCapacity int
}

// DefaultReviewClientConfig returns defaults for development.
func DefaultReviewClientConfig() ReviewClientConfig {
	return ReviewClientConfig{
		BaseURL:       "http://localhost:8084",
		Timeout:       2 * time.Second,
		CacheTTL:      30 * time.Second,
		CacheCapacity: 10000,
	}
}

const (
	reviewCacheShards             = 16
	reviewCacheEvictionPercentage = 10
)

// ReviewClient fetches reviews over HTTP with a circuit breaker and a small
// read-through cache in front of the remote service.
type ReviewClient struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	timeout time.Duration
	cache   *sturdyc.Client[[]domain.Review]
	logger  *slog.Logger
}

// NewReviewClient creates a review client backed by the given breaker-wrapped
// HTTP client.
func NewReviewClient(httpClient *httpclient.CircuitBreakerClient, cfg ReviewClientConfig, logger *slog.Logger) *ReviewClient {
	return &ReviewClient{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		cache: sturdyc.New[[]domain.Review](
			cfg.CacheCapacity,
			reviewCacheShards,
			cfg.CacheTTL,
			reviewCacheEvictionPercentage,
		),
		logger: logger,
	}
}

// FetchReviews returns the reviews for a product, consulting the client's
// cache first. "No data" (404, 204, or an empty body) comes back as
// (nil, nil); transport failures, timeouts, and an open breaker come back as
// errors. Callers degrade identically in both cases.
func (c *ReviewClient) FetchReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	return c.cache.GetOrFetch(ctx, strconv.Itoa(productID), func(ctx context.Context) ([]domain.Review, error) {
		return c.fetch(ctx, productID)
	})
}

func (c *ReviewClient) fetch(ctx context.Context, productID int) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/reviews/product/%d", c.baseURL, productID)

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "review service circuit open",
				slog.Int("product_id", productID),
			)
		}
		return nil, fmt.Errorf("fetch reviews for product %d: %w", productID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound, http.StatusNoContent:
		return nil, nil
	default:
		return nil, fmt.Errorf("fetch reviews for product %d: unexpected status %d", productID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read reviews body: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var reviews []domain.Review
	if err := json.Unmarshal(body, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	return reviews, nil
}
