package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"scan", `{"type":"scan","target":"c1"}`, false},
		{"share", `{"type":"share","target":"c1","social":"facebook"}`, false},
		{"location", `{"type":"location","target":"c1","location":{"latitude":1.5,"longitude":2.5}}`, false},
		{"timeSpan", `{"type":"timeSpan","target":"c1","timeSpan":{"start":"2024-01-01T00:00:00Z","end":"2024-01-01T00:01:00Z"}}`, false},
		{"unknown field", `{"type":"scan","target":"c1","foo":1}`, true},
		{"client supplied city", `{"type":"location","target":"c1","location":{"latitude":1,"longitude":2,"city":"X"}}`, true},
		{"wrong field type", `{"type":"scan","target":42}`, true},
		{"malformed", `{"type":`, true},
		{"trailing data", `{"type":"scan","target":"c1"} {}`, true},
		{"trailing bracket", `{"type":"scan","target":"c1"}]`, true},
		{"trailing comma", `{"type":"scan","target":"c1"},`, true},
		{"trailing whitespace", "{\"type\":\"scan\",\"target\":\"c1\"}\n\t ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload(strings.NewReader(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, p.Type)
		})
	}
}

func TestPayloadValidate(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	at := func(s int) *time.Time {
		ts := time.Date(2024, 1, 1, 0, 0, s, 0, time.UTC)
		return &ts
	}

	tests := []struct {
		name    string
		payload Payload
		wantKey string
	}{
		{"scan", Payload{Type: models.EventScan, Target: "c1"}, ""},
		{"photo", Payload{Type: models.EventPhoto, Target: "c1"}, ""},
		{"unknown type", Payload{Type: "like", Target: "c1"}, ""},
		{"share", Payload{Type: models.EventShare, Target: "c1", Social: str("twitter")}, ""},
		{"sticker", Payload{Type: models.EventSticker, Target: "c1", Sticker: str("s1")}, ""},
		{"location", Payload{Type: models.EventLocation, Target: "c1", Location: &LocationInput{Latitude: num(-90), Longitude: num(180)}}, ""},
		{"zero-length span", Payload{Type: models.EventTimeSpan, Target: "c1", TimeSpan: &TimeSpanInput{Start: at(5), End: at(5)}}, ""},

		{"missing type", Payload{Target: "c1"}, "type"},
		{"missing target", Payload{Type: models.EventScan}, "target"},
		{"share without social", Payload{Type: models.EventShare, Target: "c1"}, "social"},
		{"share with blank social", Payload{Type: models.EventShare, Target: "c1", Social: str(" ")}, "social"},
		{"sticker without sticker", Payload{Type: models.EventSticker, Target: "c1"}, "sticker"},
		{"scan with social", Payload{Type: models.EventScan, Target: "c1", Social: str("facebook")}, "social"},
		{"unknown type with sticker", Payload{Type: "like", Target: "c1", Sticker: str("s1")}, "sticker"},
		{"share with location", Payload{Type: models.EventShare, Target: "c1", Social: str("facebook"), Location: &LocationInput{}}, "location"},
		{"location without coordinates", Payload{Type: models.EventLocation, Target: "c1", Location: &LocationInput{Latitude: num(1)}}, "location"},
		{"latitude out of range", Payload{Type: models.EventLocation, Target: "c1", Location: &LocationInput{Latitude: num(90.1), Longitude: num(0)}}, "location.latitude"},
		{"longitude out of range", Payload{Type: models.EventLocation, Target: "c1", Location: &LocationInput{Latitude: num(0), Longitude: num(-180.5)}}, "location.longitude"},
		{"span without end", Payload{Type: models.EventTimeSpan, Target: "c1", TimeSpan: &TimeSpanInput{Start: at(0)}}, "timeSpan"},
		{"span ending before start", Payload{Type: models.EventTimeSpan, Target: "c1", TimeSpan: &TimeSpanInput{Start: at(10), End: at(5)}}, "timeSpan.end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.wantKey, apperr.FieldOf(err))
		})
	}
}
