// internal/canon/timestamp.go
package canon

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// epochMillisCutoff separates epoch seconds from epoch milliseconds; any
// numeric timestamp at or above this is treated as milliseconds.
const epochMillisCutoff = 1e12

// epochStringFloor is the smallest numeric string treated as an epoch
// (2001-09-09). Smaller numbers ("2024") are years or counters, not
// timestamps, and fall through to layout parsing.
const epochStringFloor = 1e9

// timestampLayouts are tried in order for string timestamps. The final
// layout is the "MM/DD/YYYY at H:MM AM/PM" locale string SaveMyChatbot
// exports use.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 at 3:04 PM",
}

// NormalizeTimestamp converts a raw source timestamp (Unix epoch seconds or
// milliseconds, ISO-8601, or the locale string) to UTC truncated to whole
// seconds. A nil input returns the zero time with no error; an unrecognized
// format returns an error so the caller can flag a soft-default warning and
// pass the raw value through unchanged.
func NormalizeTimestamp(v any) (time.Time, error) {
	switch ts := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return ts.UTC().Truncate(time.Second), nil
	case float64:
		return fromEpoch(ts), nil
	case int:
		return fromEpoch(float64(ts)), nil
	case int64:
		return fromEpoch(float64(ts)), nil
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return time.Time{}, nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil && n >= epochStringFloor {
			return fromEpoch(n), nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Truncate(time.Second), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
	default:
		return time.Time{}, fmt.Errorf("unrecognized timestamp type: %T", v)
	}
}

func fromEpoch(n float64) time.Time {
	if n >= epochMillisCutoff {
		n /= 1000
	}
	sec := int64(n)
	return time.Unix(sec, 0).UTC()
}
