package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Upstream feeds are inconsistent about types: the history API quotes every
// value while the live feed sends native JSON numbers. The helpers below coerce
// a decoded JSON value into the canonical Go type without failing.

// MaxGoals is the largest score a record may carry; the archive stores scores as UInt16.
const MaxGoals = math.MaxUint16

// FlexInt coerces a JSON number or numeric string into an int in [0, MaxGoals].
// The second return is false when v carries no usable number, including values
// above MaxGoals.
func FlexInt(v any) (int, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		// ParseFloat handles "2.0" → truncate to int
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	if f > MaxGoals {
		return 0, false
	}
	return int(f), true
}

// FlexString coerces a JSON string or number into a trimmed string
func FlexString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// Layouts accepted for string timestamps, tried in order
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// unix values above this are treated as milliseconds
const unixMillisThreshold = 1e11

// FlexTime coerces an RFC3339-ish string or a unix timestamp (seconds or
// milliseconds, native or quoted) into a UTC time.
func FlexTime(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}

	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case int64:
		f = float64(val)
	case int:
		f = float64(val)
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return time.Time{}, false
		}
		f = n
	default:
		return time.Time{}, false
	}

	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f >= unixMillisThreshold {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Unix(int64(f), 0).UTC(), true
}
