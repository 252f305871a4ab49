package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBreakerGeocoder_OpensOnFailures(t *testing.T) {
	stub := &stubGeocoder{err: errors.New("provider down")}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	b := NewBreakerGeocoder(stub, BreakerConfig{
		MinRequests:  3,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	}, zap.NewNop(), m)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := b.ReverseGeocode(ctx, 1, 2)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.ReverseGeocode(ctx, 1, 2)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), stub.calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("geocoder")))

	e := NewEnricher(b, nil, time.Second, zap.NewNop(), nil)
	_, _, err = e.ResolveCity(ctx, 1, 2)
	assert.ErrorIs(t, err, apperr.ErrExternalService)
}

func TestBreakerGeocoder_CancellationDoesNotTrip(t *testing.T) {
	stub := &stubGeocoder{err: context.Canceled}
	b := NewBreakerGeocoder(stub, BreakerConfig{
		MinRequests:  1,
		FailureRatio: 0.1,
		OpenTimeout:  time.Minute,
	}, zap.NewNop(), nil)

	for i := 0; i < 5; i++ {
		_, err := b.ReverseGeocode(context.Background(), 1, 2)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerGeocoder_PassesResults(t *testing.T) {
	want := []Result{{Types: []string{"locality"}, ShortName: "Rome"}}
	b := NewBreakerGeocoder(&stubGeocoder{results: want}, BreakerConfig{MinRequests: 1, FailureRatio: 1}, zap.NewNop(), nil)

	got, err := b.ReverseGeocode(context.Background(), 41.9, 12.5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
