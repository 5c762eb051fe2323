package types

import (
	"strconv"
	"strings"
	"time"
)

// CheckinEvent is one canonical observation at a spot. Raw documents from the
// store come in several historical shapes; CheckinFromDoc normalizes all of
// them here so nothing downstream ever branches on schema vintage.
type CheckinEvent struct {
	UserID    string
	SpotID    string
	CreatedAt time.Time
	// HasCreatedAt is false when the raw timestamp could not be parsed. The
	// event still contributes its metric fields to aggregation but is never
	// counted toward "here now" presence.
	HasCreatedAt bool

	// Metric fields use 0 for "not reported" (valid readings are 1..5).
	WifiSpeed    float64
	NoiseLevel   float64
	Busyness     float64
	DrinkQuality float64

	OutletAvailability string // plenty | some | few | none | ""
	LaptopFriendly     bool
	LaptopReported     bool
	Visibility         string // public | friends | close
	OpenNow            bool
	Intent             string   // discovery intent the user tagged, if any
	Tags               []string // tag votes: Wi-Fi, Outlets, Seating, Quiet
}

// Outlet availability values, most to least.
const (
	OutletsPlenty = "plenty"
	OutletsSome   = "some"
	OutletsFew    = "few"
	OutletsNone   = "none"
)

// noise level names used by an older schema, mapped onto the 1-5 scale
var noiseNames = map[string]float64{
	"silent":   1,
	"quiet":    2,
	"moderate": 3,
	"lively":   4,
	"loud":     5,
}

// CheckinFromDoc builds a canonical CheckinEvent out of a raw document map.
// Missing or malformed fields are dropped per-field, never fail the whole
// event.
func CheckinFromDoc(id string, data map[string]interface{}) CheckinEvent {
	ev := CheckinEvent{SpotID: id}

	if s, ok := data["userId"].(string); ok {
		ev.UserID = s
	}
	if s, ok := data["spotId"].(string); ok && s != "" {
		ev.SpotID = s
	}
	if t, ok := ParseTimestamp(data["createdAt"]); ok {
		ev.CreatedAt = t
		ev.HasCreatedAt = true
	}

	ev.WifiSpeed = numericField(data["wifiSpeed"])
	ev.NoiseLevel = noiseField(data["noiseLevel"])
	ev.Busyness = numericField(data["busyness"])
	ev.DrinkQuality = numericField(data["drinkQuality"])

	if s, ok := data["outletAvailability"].(string); ok {
		switch s {
		case OutletsPlenty, OutletsSome, OutletsFew, OutletsNone:
			ev.OutletAvailability = s
		}
	}
	if b, ok := data["laptopFriendly"].(bool); ok {
		ev.LaptopFriendly = b
		ev.LaptopReported = true
	}
	if s, ok := data["visibility"].(string); ok {
		ev.Visibility = s
	}
	if b, ok := data["openNow"].(bool); ok {
		ev.OpenNow = b
	}
	if s, ok := data["intent"].(string); ok {
		ev.Intent = s
	}
	if raw, ok := data["tags"].([]interface{}); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				ev.Tags = append(ev.Tags, s)
			}
		}
	}

	return ev
}

// ParseTimestamp accepts the timestamp shapes that have shipped over time:
// native time.Time, epoch milliseconds, ISO-8601 strings, and the structured
// {seconds, nanoseconds} form.
func ParseTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case int64:
		return time.UnixMilli(t).UTC(), true
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02T15:04:05Z", t); err == nil {
			return parsed, true
		}
		// epoch milliseconds stored as a string
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms).UTC(), true
		}
	case map[string]interface{}:
		secs, sOk := toInt64(t["seconds"])
		if !sOk {
			secs, sOk = toInt64(t["_seconds"])
		}
		if sOk {
			nanos, _ := toInt64(t["nanoseconds"])
			if nanos == 0 {
				nanos, _ = toInt64(t["_nanoseconds"])
			}
			return time.Unix(secs, nanos).UTC(), true
		}
	}
	return time.Time{}, false
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// numericField pulls a 1-5 metric out of whatever numeric (or numeric-string)
// encoding the document used. Returns 0 when absent or malformed.
func numericField(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		if n >= 1 && n <= 5 {
			return n
		}
	case int64:
		if n >= 1 && n <= 5 {
			return float64(n)
		}
	case int:
		if n >= 1 && n <= 5 {
			return float64(n)
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil && f >= 1 && f <= 5 {
			return f
		}
	}
	return 0
}

// noiseField additionally accepts the legacy named noise levels.
func noiseField(v interface{}) float64 {
	if s, ok := v.(string); ok {
		if level, ok := noiseNames[strings.ToLower(s)]; ok {
			return level
		}
	}
	return numericField(v)
}
