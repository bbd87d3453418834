package sitemap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheMemoizesPerKey(t *testing.T) {
	cache := NewCache()
	calls := 0
	compute := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := getOrCompute(cache, "p:op:a", compute)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = getOrCompute(cache, "p:op:a", compute)
	require.NoError(t, err)
	require.Equal(t, 1, v, "second call must be served from cache")
	require.Equal(t, 1, calls)

	// A negative result for one argument must not suppress another.
	v, err = getOrCompute(cache, "p:op:b", compute)
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, 2, cache.Len())
}

func TestCacheMemoizesErrors(t *testing.T) {
	cache := NewCache()
	boom := errors.New("boom")
	calls := 0

	for range 2 {
		_, err := getOrCompute(cache, "p:op:a", func() (*Resolution, error) {
			calls++
			return nil, boom
		})
		require.ErrorIs(t, err, boom)
	}
	require.Equal(t, 1, calls)
}

func TestNilCachePassesThrough(t *testing.T) {
	v, err := getOrCompute[string](nil, "k", func() (string, error) { return "x", nil })
	require.NoError(t, err)
	require.Equal(t, "x", v)
}

func TestGateSegregatesCacheKeys(t *testing.T) {
	rc := &Request{}
	gated := rc.cacheKey("website", "findnode", "/a/")
	ungated := rc.WithoutAuthorization().cacheKey("website", "findnode", "/a/")
	require.NotEqual(t, gated, ungated)
}
