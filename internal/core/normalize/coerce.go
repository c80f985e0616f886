package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"tubelens/internal/core/schema"
)

// lookup resolves the first present path among paths, reporting which path
// matched so rejections can name the field the value actually sat at.
// A path may be flat ("view_count") or dotted into nested maps
// ("statistics.viewCount"), matching both pre-flattened dumps and the raw
// API shape
func lookup(m map[string]any, paths ...string) (any, string, bool) {
	for _, p := range paths {
		if v, ok := m[p]; ok {
			return v, p, true
		}
		if !strings.Contains(p, ".") {
			continue
		}
		cur := any(m)
		found := true
		for _, seg := range strings.Split(p, ".") {
			mm, ok := cur.(map[string]any)
			if !ok {
				found = false
				break
			}
			cur, ok = mm[seg]
			if !ok {
				found = false
				break
			}
		}
		if found {
			return cur, p, true
		}
	}
	return nil, "", false
}

// stringField returns the first present path coerced to a non-empty string
func stringField(m map[string]any, paths ...string) (string, bool) {
	v, _, ok := lookup(m, paths...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// countField coerces the first present path into a tri-state Count.
// Absent paths yield the unknown Count with no rejection. Non-numeric or
// negative values return a non-empty reason and the offending field name
func countField(m map[string]any, paths ...string) (c schema.Count, field, reason string) {
	v, at, ok := lookup(m, paths...)
	if !ok {
		return schema.Count{}, "", ""
	}
	n, ok := asInt64(v)
	if !ok {
		return schema.Count{}, at, "not numeric"
	}
	if n < 0 {
		return schema.Count{}, at, "negative"
	}
	return schema.KnownCount(n), "", ""
}

// asInt64 coerces JSON-ish numeric shapes: float64, int variants,
// json.Number, and unambiguous numeric strings like "1234"
func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// asFloat64 coerces numeric shapes into a float64
func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// timestamp layouts accepted in addition to RFC3339
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime parses a timestamp string into a canonical UTC instant
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// timeField resolves and parses a timestamp at the first present path.
// Missing → reason "missing"; unparsable → reason "unparsable timestamp"
func timeField(m map[string]any, paths ...string) (t time.Time, field, reason string) {
	v, at, ok := lookup(m, paths...)
	if !ok {
		return time.Time{}, paths[0], "missing"
	}
	s, ok := v.(string)
	if !ok {
		// tolerate unix seconds delivered as a number
		if n, numOK := asInt64(v); numOK {
			return time.Unix(n, 0).UTC(), "", ""
		}
		return time.Time{}, at, "unparsable timestamp"
	}
	parsed, ok := parseTime(s)
	if !ok {
		return time.Time{}, at, "unparsable timestamp"
	}
	return parsed, "", ""
}

// durationField resolves video duration from either a numeric
// duration_seconds or the raw API's ISO-8601 contentDetails.duration
func durationField(m map[string]any) (c schema.Count, field, reason string) {
	if v, at, ok := lookup(m, "duration_seconds"); ok {
		n, numOK := asInt64(v)
		if !numOK {
			return schema.Count{}, at, "not numeric"
		}
		if n < 0 {
			return schema.Count{}, at, "negative"
		}
		return schema.KnownCount(n), "", ""
	}
	if v, at, ok := lookup(m, "duration", "contentDetails.duration"); ok {
		s, strOK := v.(string)
		if !strOK {
			return schema.Count{}, at, "not an ISO-8601 duration"
		}
		secs, err := ParseISODuration(s)
		if err != nil {
			return schema.Count{}, at, "not an ISO-8601 duration"
		}
		return schema.KnownCount(secs), "", ""
	}
	return schema.Count{}, "", ""
}

// sentimentField resolves the optional pre-computed sentiment score.
// Out-of-range scores reject the record; absence stays unknown
func sentimentField(m map[string]any) (s schema.Stat, reason string) {
	v, _, ok := lookup(m, "sentiment_score")
	if !ok {
		return schema.Stat{}, ""
	}
	f, ok := asFloat64(v)
	if !ok {
		return schema.Stat{}, "not numeric"
	}
	if f < -1 || f > 1 {
		return schema.Stat{}, "out of range [-1,1]"
	}
	return schema.KnownStat(f), ""
}
