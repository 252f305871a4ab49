package analytics

import (
	"math"
	"strconv"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/models"
)

const day = 24 * time.Hour

// activeDays returns the whole days between created and now, halves
// rounding up.
func activeDays(created, now time.Time) int64 {
	days := float64(now.Sub(created)) / float64(day)
	return int64(math.Floor(days + 0.5))
}

// averageSpan returns the mean session length in milliseconds.
func averageSpan(events []*models.Event) (float64, bool) {
	var (
		total float64
		n     int
	)
	for _, e := range events {
		if e.TimeSpan == nil {
			continue
		}
		total += float64(e.TimeSpan.Duration()) / float64(time.Millisecond)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// formatSpan renders milliseconds as MM:SS. Minutes and seconds are derived
// independently, so 59.6s renders as "00:60".
func formatSpan(ms float64) string {
	minutes := math.Floor(ms / 60000)
	seconds := math.Floor(math.Mod(ms/1000, 60) + 0.5)
	return pad(int64(minutes)) + ":" + pad(int64(seconds))
}

func pad(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
