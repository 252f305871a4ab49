package geo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubGeocoder returns canned results and counts calls.
type stubGeocoder struct {
	results []Result
	err     error
	calls   atomic.Int32
}

func (s *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Result, error) {
	s.calls.Add(1)
	return s.results, s.err
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestResolveCity_FirstLocality(t *testing.T) {
	tests := []struct {
		name      string
		results   []Result
		wantCity  string
		wantFound bool
	}{
		{
			name: "locality after other results",
			results: []Result{
				{Types: []string{"street_address"}, ShortName: "1600"},
				{Types: []string{"locality", "political"}, ShortName: "Paris"},
				{Types: []string{"locality", "political"}, ShortName: "Lyon"},
			},
			wantCity:  "Paris",
			wantFound: true,
		},
		{
			name: "locality only as secondary type",
			results: []Result{
				{Types: []string{"political", "locality"}, ShortName: "Nowhere"},
			},
		},
		{
			name:    "no results",
			results: []Result{},
		},
		{
			name: "result without types",
			results: []Result{
				{ShortName: "Ghost"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnricher(&stubGeocoder{results: tt.results}, nil, time.Second, zap.NewNop(), nil)

			city, found, err := e.ResolveCity(context.Background(), 48.85, 2.35)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantCity, city)
		})
	}
}

func TestResolveCity_ProviderError(t *testing.T) {
	e := NewEnricher(&stubGeocoder{err: errors.New("maps: OVER_QUERY_LIMIT - ")}, nil, time.Second, zap.NewNop(), nil)

	_, found, err := e.ResolveCity(context.Background(), 1, 2)
	require.Error(t, err)
	assert.False(t, found)
	assert.ErrorIs(t, err, apperr.ErrExternalService)
	assert.Contains(t, err.Error(), "OVER_QUERY_LIMIT")
}

func TestResolveCity_Disabled(t *testing.T) {
	e := NewEnricher(nil, nil, time.Second, zap.NewNop(), nil)

	_, _, err := e.ResolveCity(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperr.ErrExternalService)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestResolveCity_Timeout(t *testing.T) {
	slow := GeocoderFunc(func(ctx context.Context, lat, lng float64) ([]Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	e := NewEnricher(slow, nil, 20*time.Millisecond, zap.NewNop(), nil)

	_, _, err := e.ResolveCity(context.Background(), 1, 2)
	assert.ErrorIs(t, err, apperr.ErrExternalService)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveCity_Cache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCityCache(client, time.Hour)
	stub := &stubGeocoder{results: []Result{{Types: []string{"locality"}, ShortName: "Berlin"}}}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	e := NewEnricher(stub, cache, time.Second, zap.NewNop(), m)
	ctx := context.Background()

	city, found, err := e.ResolveCity(ctx, 52.520008, 13.404954)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Berlin", city)
	assert.True(t, mr.Exists("geo:city:52.5200,13.4050"))

	// Same position within rounding is served from the cache.
	city, found, err = e.ResolveCity(ctx, 52.52001, 13.40496)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Berlin", city)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestResolveCity_NotFoundIsNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	stub := &stubGeocoder{results: []Result{{Types: []string{"country"}, ShortName: "DE"}}}
	e := NewEnricher(stub, NewRedisCityCache(client, time.Hour), time.Second, zap.NewNop(), nil)

	_, found, err := e.ResolveCity(context.Background(), 52.52, 13.40)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, mr.Keys())
}

func TestResolveCity_CacheDownFallsThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.Close()
	stub := &stubGeocoder{results: []Result{{Types: []string{"locality"}, ShortName: "Oslo"}}}
	e := NewEnricher(stub, NewRedisCityCache(client, time.Hour), time.Second, zap.NewNop(), nil)

	city, found, err := e.ResolveCity(context.Background(), 59.91, 10.75)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Oslo", city)
}

func TestRedisCityCache_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCityCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1.23456, 7.89012, "Somewhere"))

	city, ok, err := cache.Get(ctx, 1.23456, 7.89012)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Somewhere", city)

	mr.FastForward(2 * time.Minute)

	_, ok, err = cache.Get(ctx, 1.23456, 7.89012)
	require.NoError(t, err)
	assert.False(t, ok)
}
