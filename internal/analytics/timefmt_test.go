package analytics

import (
	"testing"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestActiveDays(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d float64) time.Time {
		return now.Add(-time.Duration(d * float64(day)))
	}

	tests := []struct {
		name    string
		created time.Time
		want    int64
	}{
		{"created now", now, 0},
		{"10.4 days rounds down", daysAgo(10.4), 10},
		{"10.5 days rounds up", daysAgo(10.5), 11},
		{"10.6 days rounds up", daysAgo(10.6), 11},
		{"under half a day", daysAgo(0.49), 0},
		{"exactly 30 days", daysAgo(30), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, activeDays(tt.created, now))
		})
	}
}

func TestFormatSpan(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{0, "00:00"},
		{90000, "01:30"},
		{61000, "01:01"},
		{59600, "00:60"},
		{599000, "09:59"},
		{600000, "10:00"},
		{3599600, "59:60"},
		{6000000, "100:00"},
		{1499, "00:01"},
		{1500, "00:02"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSpan(tt.ms))
		})
	}
}

func TestAverageSpan(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	span := func(d time.Duration) *models.Event {
		return &models.Event{
			Type:     models.EventTimeSpan,
			TimeSpan: &models.TimeSpan{Start: start, End: start.Add(d)},
		}
	}

	_, ok := averageSpan(nil)
	assert.False(t, ok)

	avg, ok := averageSpan([]*models.Event{span(time.Minute), span(2 * time.Minute), {Type: models.EventTimeSpan}})
	assert.True(t, ok)
	assert.Equal(t, 90000.0, avg)
}
