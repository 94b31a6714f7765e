package market

import (
	"sort"
	"strconv"
	"time"
)

// Upstream candle feeds disagree on shape: some return positional arrays
// [ts, o, h, l, c, v], some keyed records with long or single-letter keys,
// and timestamps arrive as millisecond epochs or ISO-8601 strings.
// NormalizeBars folds all of those into the canonical Bar sequence.
//
// Rows that cannot be parsed are dropped rather than failing the whole
// fetch. The result is sorted by time ascending with duplicate timestamps
// removed (first occurrence wins).
func NormalizeBars(raw []any) []Bar {
	bars := make([]Bar, 0, len(raw))
	for _, r := range raw {
		if b, ok := ParseBar(r); ok {
			bars = append(bars, b)
		}
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]
	var last time.Time
	for _, b := range bars {
		if len(out) > 0 && b.Time.Equal(last) {
			continue
		}
		out = append(out, b)
		last = b.Time
	}
	return out
}

// ParseBar converts a single raw candle payload into a Bar. It accepts a
// positional array of at least [ts, open, high, low, close, volume] or a
// keyed record using common field names.
func ParseBar(raw any) (Bar, bool) {
	switch v := raw.(type) {
	case []any:
		if len(v) < 6 {
			return Bar{}, false
		}
		ts, ok := parseTimestamp(v[0])
		if !ok {
			return Bar{}, false
		}
		o, ok1 := toFloat(v[1])
		h, ok2 := toFloat(v[2])
		l, ok3 := toFloat(v[3])
		c, ok4 := toFloat(v[4])
		vol, ok5 := toFloat(v[5])
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			return Bar{}, false
		}
		return Bar{Time: ts, Open: o, High: h, Low: l, Close: c, Volume: vol}, true

	case map[string]any:
		ts, ok := parseTimestamp(firstOf(v, "timestamp", "time", "date", "datetime", "t"))
		if !ok {
			return Bar{}, false
		}
		o, ok1 := toFloat(firstOf(v, "open", "o"))
		h, ok2 := toFloat(firstOf(v, "high", "h"))
		l, ok3 := toFloat(firstOf(v, "low", "l"))
		c, ok4 := toFloat(firstOf(v, "close", "c"))
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return Bar{}, false
		}
		vol, _ := toFloat(firstOf(v, "volume", "v"))
		return Bar{Time: ts, Open: o, High: h, Low: l, Close: c, Volume: vol}, true
	}

	return Bar{}, false
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// parseTimestamp handles millisecond epochs (number or numeric string) and
// ISO-8601 / RFC3339 strings. Unix-second epochs are recognized by
// magnitude so feeds that predate the millisecond convention still work.
func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return epochToTime(int64(t)), true
	case int64:
		return epochToTime(t), true
	case int:
		return epochToTime(int64(t)), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return epochToTime(n), true
		}
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func epochToTime(n int64) time.Time {
	// Heuristic: epochs past the year ~2286 in seconds are milliseconds.
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
