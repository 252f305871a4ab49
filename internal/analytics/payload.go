package analytics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
)

// Payload is the body of an ingestion request. It is a tagged union over
// Type: only the field belonging to the type may be set.
type Payload struct {
	Type     models.EventType `json:"type"`
	Target   string           `json:"target"`
	Social   *string          `json:"social,omitempty"`
	Sticker  *string          `json:"sticker,omitempty"`
	Location *LocationInput   `json:"location,omitempty"`
	TimeSpan *TimeSpanInput   `json:"timeSpan,omitempty"`
}

// LocationInput carries the coordinates of a location event. The city is
// resolved server side and cannot be supplied.
type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// TimeSpanInput carries one viewing session.
type TimeSpanInput struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// DecodePayload reads exactly one payload from r, rejecting unknown fields
// and anything after the object.
func DecodePayload(r io.Reader) (*Payload, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, apperr.Validation("analytics.DecodePayload", "", fmt.Sprintf("invalid payload: %v", err))
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, apperr.Validation("analytics.DecodePayload", "", "invalid payload: trailing data")
	}
	return &p, nil
}

// Validate checks the payload against the field set of its type.
func (p *Payload) Validate() error {
	const op = "analytics.Validate"

	if strings.TrimSpace(string(p.Type)) == "" {
		return apperr.Validation(op, "type", "type is required")
	}
	if strings.TrimSpace(p.Target) == "" {
		return apperr.Validation(op, "target", "target is required")
	}

	// Fields that do not belong to the type.
	owned := []struct {
		owner models.EventType
		key   string
		set   bool
	}{
		{models.EventShare, "social", p.Social != nil},
		{models.EventSticker, "sticker", p.Sticker != nil},
		{models.EventLocation, "location", p.Location != nil},
		{models.EventTimeSpan, "timeSpan", p.TimeSpan != nil},
	}
	for _, f := range owned {
		if f.set && f.owner != p.Type {
			return apperr.Validation(op, f.key, fmt.Sprintf("%s is not allowed for %q events", f.key, p.Type))
		}
	}

	switch p.Type {
	case models.EventShare:
		if p.Social == nil || strings.TrimSpace(*p.Social) == "" {
			return apperr.Validation(op, "social", "social is required for share events")
		}
	case models.EventSticker:
		if p.Sticker == nil || strings.TrimSpace(*p.Sticker) == "" {
			return apperr.Validation(op, "sticker", "sticker is required for sticker events")
		}
	case models.EventLocation:
		return p.validateLocation(op)
	case models.EventTimeSpan:
		return p.validateTimeSpan(op)
	}
	return nil
}

func (p *Payload) validateLocation(op string) error {
	loc := p.Location
	if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
		return apperr.Validation(op, "location", "location.latitude and location.longitude are required for location events")
	}
	if *loc.Latitude < -90 || *loc.Latitude > 90 {
		return apperr.Validation(op, "location.latitude", "latitude must be within [-90, 90]")
	}
	if *loc.Longitude < -180 || *loc.Longitude > 180 {
		return apperr.Validation(op, "location.longitude", "longitude must be within [-180, 180]")
	}
	return nil
}

func (p *Payload) validateTimeSpan(op string) error {
	ts := p.TimeSpan
	if ts == nil || ts.Start == nil || ts.End == nil {
		return apperr.Validation(op, "timeSpan", "timeSpan.start and timeSpan.end are required for timeSpan events")
	}
	if ts.End.Before(*ts.Start) {
		return apperr.Validation(op, "timeSpan.end", "timeSpan.end must not be before timeSpan.start")
	}
	return nil
}

// event builds the record to store. The payload must be valid.
func (p *Payload) event(now time.Time) *models.Event {
	e := &models.Event{
		Type:      p.Type,
		Target:    p.Target,
		CreatedOn: now,
		UpdatedOn: now,
	}
	switch {
	case p.Social != nil:
		e.Social = *p.Social
	case p.Sticker != nil:
		e.Sticker = *p.Sticker
	case p.Location != nil:
		e.Location = &models.Location{
			Latitude:  *p.Location.Latitude,
			Longitude: *p.Location.Longitude,
		}
	case p.TimeSpan != nil:
		e.TimeSpan = &models.TimeSpan{
			Start: p.TimeSpan.Start.UTC(),
			End:   p.TimeSpan.End.UTC(),
		}
	}
	return e
}
