// Package timeutil contains time related helpers shared by the engine packages
package timeutil

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// OrUTC returns loc, or time.UTC when loc is nil.
// Engine packages take an optional *time.Location; nil means UTC
func OrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// DaysSince returns the whole days elapsed from t to asOf, floored at zero.
// Partial days count as zero; callers clamp to >=1 when dividing
func DaysSince(t, asOf time.Time) int64 {
	d := asOf.Sub(t)
	if d <= 0 {
		return 0
	}
	return int64(d / (24 * time.Hour))
}

// MonthKey formats t as "2006-01" in loc (nil -> UTC)
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(OrUTC(loc)).Format("2006-01")
}

// DayKey formats t as "2006-01-02" in loc (nil -> UTC)
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(OrUTC(loc)).Format("2006-01-02")
}
