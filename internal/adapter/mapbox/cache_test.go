package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// --- mock for cache tests ---

type countingResolver struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingResolver) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func newCached(t *testing.T, inner domain.RegionResolver, size int) *CachedResolver {
	t.Helper()
	c, err := NewCachedResolver(inner, size, testMetrics())
	require.NoError(t, err)
	return c
}

// --- CachedResolver tests ---

func TestCachedResolver_CacheHit(t *testing.T) {
	inner := &countingResolver{
		result: domain.GeocodingResult{PlaceName: "Hokkaido", FormattedAddress: "Hokkaido, Japan"},
	}
	cached := newCached(t, inner, 10)

	r1, err := cached.ReverseGeocode(context.Background(), 42.5, 143.1)
	require.NoError(t, err)
	r2, err := cached.ReverseGeocode(context.Background(), 42.5, 143.1)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.GeocodeCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.GeocodeCache.WithLabelValues("miss")))
}

func TestCachedResolver_DifferentKeysMiss(t *testing.T) {
	inner := &countingResolver{result: domain.GeocodingResult{FormattedAddress: "somewhere"}}
	cached := newCached(t, inner, 10)

	_, _ = cached.ReverseGeocode(context.Background(), 1, 2)
	_, _ = cached.ReverseGeocode(context.Background(), 2, 1)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedResolver_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingResolver{}
	cached := newCached(t, inner, 10)

	_, _ = cached.ReverseGeocode(context.Background(), 0, -150)
	_, _ = cached.ReverseGeocode(context.Background(), 0, -150)
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("rate limited")
	_, err := cached.ReverseGeocode(context.Background(), 0, -150)
	require.Error(t, err)
	assert.Zero(t, cached.Len())
}

func TestCachedResolver_Eviction(t *testing.T) {
	inner := &countingResolver{result: domain.GeocodingResult{FormattedAddress: "x"}}
	cached := newCached(t, inner, 2)

	_, _ = cached.ReverseGeocode(context.Background(), 1, 1)
	_, _ = cached.ReverseGeocode(context.Background(), 2, 2)
	_, _ = cached.ReverseGeocode(context.Background(), 1, 1) // promote (1,1)
	_, _ = cached.ReverseGeocode(context.Background(), 3, 3) // evicts (2,2)
	assert.Equal(t, 3, inner.calls)

	_, _ = cached.ReverseGeocode(context.Background(), 1, 1)
	assert.Equal(t, 3, inner.calls, "recently used entry survives")
	_, _ = cached.ReverseGeocode(context.Background(), 2, 2)
	assert.Equal(t, 4, inner.calls, "least recently used entry was evicted")
}

func TestNewCachedResolver_RejectsNonPositiveSize(t *testing.T) {
	_, err := NewCachedResolver(&countingResolver{}, 0, testMetrics())
	assert.Error(t, err)
}
