package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"golang.org/x/sync/errgroup"
)

// Share channels reported by Detail. Other channels are dropped.
const (
	ChannelFacebook = "facebook"
	ChannelTwitter  = "twitter"
)

// ShareCounts holds the share counts of the reported channels.
type ShareCounts struct {
	Facebook int64 `json:"facebook"`
	Twitter  int64 `json:"twitter"`
}

// StickerCount is one entry of the sticker ranking.
type StickerCount struct {
	Sticker string `json:"sticker"`
	Count   int64  `json:"count"`
}

// LocationCount is one entry of the city ranking.
type LocationCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// TargetSummary is the detailed view of one campaign target.
type TargetSummary struct {
	ActiveDays int64           `json:"activeDays"`
	Scans      int64           `json:"scans"`
	TimeSpan   string          `json:"timeSpan"`
	Shares     ShareCounts     `json:"shares"`
	Photos     int64           `json:"photos"`
	Stickers   []StickerCount  `json:"stickers"`
	Locations  []LocationCount `json:"locations"`
}

// Detail computes the summary of targetID. The sub-queries run concurrently
// and the first failure fails the whole call.
func (s *Service) Detail(ctx context.Context, targetID string) (*TargetSummary, error) {
	defer s.observe("detail", time.Now())

	if targetID == "" {
		return nil, apperr.Validation("analytics.Detail", "target_id", "target_id is required")
	}

	var (
		campaign  *models.Campaign
		scans     int64
		spans     []*models.Event
		shares    []models.GroupCount
		photos    int64
		stickers  []models.GroupCount
		locations []models.GroupCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		campaign, err = s.campaigns.GetByID(gctx, targetID)
		return err
	})
	g.Go(func() (err error) {
		scans, err = s.events.Count(gctx, targetID, models.EventScan)
		return err
	})
	g.Go(func() (err error) {
		spans, err = s.events.List(gctx, targetID, models.EventTimeSpan)
		return err
	})
	g.Go(func() (err error) {
		shares, err = s.events.GroupCount(gctx, targetID, models.EventShare, models.GroupBySocial)
		return err
	})
	g.Go(func() (err error) {
		photos, err = s.events.Count(gctx, targetID, models.EventPhoto)
		return err
	})
	g.Go(func() (err error) {
		stickers, err = s.events.GroupCount(gctx, targetID, models.EventSticker, models.GroupBySticker)
		return err
	})
	g.Go(func() (err error) {
		locations, err = s.events.GroupCount(gctx, targetID, models.EventLocation, models.GroupByCity)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &TargetSummary{
		ActiveDays: activeDays(campaign.CreatedOn, s.now()),
		Scans:      scans,
		TimeSpan:   "00:00",
		Photos:     photos,
		Stickers:   make([]StickerCount, 0, len(stickers)),
		Locations:  make([]LocationCount, 0, len(locations)),
	}

	if avg, ok := averageSpan(spans); ok {
		summary.TimeSpan = formatSpan(avg)
	}

	for _, gc := range shares {
		switch gc.Key {
		case ChannelFacebook:
			summary.Shares.Facebook = gc.Count
		case ChannelTwitter:
			summary.Shares.Twitter = gc.Count
		}
	}

	for _, gc := range rankDescending(stickers) {
		summary.Stickers = append(summary.Stickers, StickerCount{Sticker: gc.Key, Count: gc.Count})
	}
	for _, gc := range rankDescending(locations) {
		summary.Locations = append(summary.Locations, LocationCount{City: gc.Key, Count: gc.Count})
	}

	return summary, nil
}

// rankDescending sorts groups by count, highest first. Ties keep the order
// the store returned them in.
func rankDescending(groups []models.GroupCount) []models.GroupCount {
	ranked := make([]models.GroupCount, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
