package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion_PutGet(t *testing.T) {
	r := NewRegion[int, string]("test-put-get")

	_, ok := r.Get(1)
	assert.False(t, ok)

	r.Put(1, "one")
	v, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestRegion_EvictSingleKey(t *testing.T) {
	r := NewRegion[int, string]("test-evict")
	r.Put(1, "one")
	r.Put(2, "two")

	r.Evict(1)

	_, ok := r.Get(1)
	assert.False(t, ok)
	_, ok = r.Get(2)
	assert.True(t, ok)
}

func TestRegion_ClearRemovesEverything(t *testing.T) {
	r := NewRegion[PageKey, []string]("test-clear")
	r.Put(PageKey{Page: 0, Size: 10}, []string{"a"})
	r.Put(PageKey{Page: 1, Size: 10}, []string{"b"})
	require.Equal(t, 2, r.Len())

	r.Clear()

	assert.Equal(t, 0, r.Len())
	_, ok := r.Get(PageKey{Page: 0, Size: 10})
	assert.False(t, ok)
}

func TestGetOrFetch_FetchesOnceThenHits(t *testing.T) {
	r := NewRegion[int, string]("test-fetch-once")
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	v, err := GetOrFetch(context.Background(), r, 7, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = GetOrFetch(context.Background(), r, 7, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	assert.Equal(t, 1, calls, "second lookup must be served from cache")
}

func TestGetOrFetch_ErrorDoesNotPopulate(t *testing.T) {
	r := NewRegion[int, string]("test-fetch-error")
	boom := errors.New("store down")

	_, err := GetOrFetch(context.Background(), r, 1, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := r.Get(1)
	assert.False(t, ok, "a failed fetch must not leave an entry behind")
}

func TestGetOrFetch_RefetchesAfterClear(t *testing.T) {
	r := NewRegion[int, string]("test-refetch")
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	_, err := GetOrFetch(context.Background(), r, 1, fetch)
	require.NoError(t, err)

	r.Clear()

	_, err = GetOrFetch(context.Background(), r, 1, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRegion_ConcurrentAccess(t *testing.T) {
	r := NewRegion[int, int]("test-concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Put(n%10, n)
			r.Get(n % 10)
			if n%7 == 0 {
				r.Clear()
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 10)
}
