package models

import (
	"time"
)

// ===========================================
// EVENT TYPES
// ===========================================

// EventType identifies what kind of interaction an event records.
type EventType string

const (
	EventScan     EventType = "scan"
	EventShare    EventType = "share"
	EventSticker  EventType = "sticker"
	EventPhoto    EventType = "photo"
	EventLocation EventType = "location"
	EventTimeSpan EventType = "timeSpan"
)

// ===========================================
// EVENT RECORD
// ===========================================

// Location is the position attached to a location event. City is filled in
// by reverse geocoding, never by the caller.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	City      string  `json:"city,omitempty" bson:"city,omitempty"`
}

// TimeSpan is one viewing session of a campaign target.
type TimeSpan struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Duration returns End - Start.
func (ts TimeSpan) Duration() time.Duration {
	return ts.End.Sub(ts.Start)
}

// Event is one stored interaction with a campaign target. Only the field
// matching Type is set.
type Event struct {
	ID     string    `json:"id" bson:"_id"`
	Type   EventType `json:"type" bson:"type"`
	Target string    `json:"target" bson:"target"`

	Social   string    `json:"social,omitempty" bson:"social,omitempty"`     // share
	Sticker  string    `json:"sticker,omitempty" bson:"sticker,omitempty"`   // sticker
	Location *Location `json:"location,omitempty" bson:"location,omitempty"` // location
	TimeSpan *TimeSpan `json:"timeSpan,omitempty" bson:"timeSpan,omitempty"` // timeSpan

	CreatedOn time.Time `json:"createdOn" bson:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn" bson:"updatedOn"`
}

// Clone returns a deep copy of e.
func (e *Event) Clone() *Event {
	cp := *e
	if e.Location != nil {
		loc := *e.Location
		cp.Location = &loc
	}
	if e.TimeSpan != nil {
		ts := *e.TimeSpan
		cp.TimeSpan = &ts
	}
	return &cp
}

// ===========================================
// GROUPING
// ===========================================

// GroupField names an event attribute that can be grouped and counted.
type GroupField string

const (
	GroupBySocial  GroupField = "social"
	GroupBySticker GroupField = "sticker"
	GroupByCity    GroupField = "location.city"
)

// Value extracts the grouped attribute from e. Empty means the event does
// not belong to any group.
func (f GroupField) Value(e *Event) string {
	switch f {
	case GroupBySocial:
		return e.Social
	case GroupBySticker:
		return e.Sticker
	case GroupByCity:
		if e.Location != nil {
			return e.Location.City
		}
	}
	return ""
}

// GroupCount is one row of a group-by-and-count query.
type GroupCount struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
