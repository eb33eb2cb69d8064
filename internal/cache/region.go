package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Cache lookups that found an entry",
		},
		[]string{"region"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Cache lookups that found nothing",
		},
		[]string{"region"},
	)

	cacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_evictions_total",
			Help: "Entries or whole regions removed by a write",
		},
		[]string{"region"},
	)
)

// PageKey identifies one page of the catalog in the product-page region.
type PageKey struct {
	Page int
	Size int
}

// Region is one independently keyed, independently invalidated cache
// partition. Entries are created lazily on first miss and removed by the
// write operations that could invalidate them; no TTL is applied.
//
// All methods are safe for concurrent use. Clear is atomic with respect to
// lookups: a reader entering after Clear returns never sees a pre-clear entry.
type Region[K comparable, V any] struct {
	name    string
	entries *xsync.MapOf[K, V]
}

// NewRegion creates an empty named region. The name labels the region's
// hit/miss/eviction metrics.
func NewRegion[K comparable, V any](name string) *Region[K, V] {
	return &Region[K, V]{
		name:    name,
		entries: xsync.NewMapOf[K, V](),
	}
}

// Name returns the region's metric label.
func (r *Region[K, V]) Name() string {
	return r.name
}

// Get looks up a key, recording a hit or miss.
func (r *Region[K, V]) Get(key K) (V, bool) {
	v, ok := r.entries.Load(key)
	if ok {
		cacheHits.WithLabelValues(r.name).Inc()
	} else {
		cacheMisses.WithLabelValues(r.name).Inc()
	}
	return v, ok
}

// Put stores a value under the given key.
func (r *Region[K, V]) Put(key K, value V) {
	r.entries.Store(key, value)
}

// Evict removes a single key.
func (r *Region[K, V]) Evict(key K) {
	r.entries.Delete(key)
	cacheEvictions.WithLabelValues(r.name).Inc()
}

// Clear removes every entry in the region.
func (r *Region[K, V]) Clear() {
	r.entries.Clear()
	cacheEvictions.WithLabelValues(r.name).Inc()
}

// Len returns the current number of entries.
func (r *Region[K, V]) Len() int {
	return r.entries.Size()
}

// GetOrFetch returns the cached value for key, or calls fetch on a miss and
// caches the result. Concurrent misses for the same key may both invoke
// fetch; recomputing twice is acceptable, and last store wins. A fetch error
// is returned without populating the region.
func GetOrFetch[K comparable, V any](ctx context.Context, r *Region[K, V], key K, fetch func(context.Context) (V, error)) (V, error) {
	if v, ok := r.Get(key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	r.Put(key, v)
	return v, nil
}
