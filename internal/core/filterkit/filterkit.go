// Package filterkit narrows enriched video rows by publish-date range and
// metric threshold. Apply always returns a fresh slice; inputs are never
// mutated, so analytics entry points can share one loaded dataset
package filterkit

import (
	"time"

	"tubelens/internal/core/schema"
	perr "tubelens/internal/platform/errors"
)

// Range bounds published_at inclusively on both ends.
// A nil bound is unbounded on that side
type Range struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains reports whether t falls inside the range, bounds inclusive
func (r Range) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Bounded reports whether either end of the range is set
func (r Range) Bounded() bool { return r.Start != nil || r.End != nil }

// ContainsOrUnknown treats the zero time as an unknown instant: it only
// passes an unbounded range, mirroring how unknown metrics never satisfy a
// threshold
func (r Range) ContainsOrUnknown(t time.Time) bool {
	if t.IsZero() {
		return !r.Bounded()
	}
	return r.Contains(t)
}

// Threshold comparison operators
const (
	OpGTE = "gte"
	OpGT  = "gt"
	OpLTE = "lte"
	OpLT  = "lt"
	OpEQ  = "eq"
)

// Threshold keeps rows whose metric compares against Value.
// Rows with an unknown metric never satisfy a threshold
type Threshold struct {
	Metric string  `json:"metric" validate:"required"`
	Op     string  `json:"op" validate:"required,oneof=gte gt lte lt eq"`
	Value  float64 `json:"value"`
}

func (t Threshold) satisfied(v schema.Stat) (bool, error) {
	if !v.Known {
		return false, nil
	}
	switch t.Op {
	case OpGTE:
		return v.Value >= t.Value, nil
	case OpGT:
		return v.Value > t.Value, nil
	case OpLTE:
		return v.Value <= t.Value, nil
	case OpLT:
		return v.Value < t.Value, nil
	case OpEQ:
		return v.Value == t.Value, nil
	default:
		return false, perr.InvalidArgf("unknown threshold op %q", t.Op)
	}
}

// Apply filters rows by date range and optional threshold, preserving input
// order. With no bounds and a nil threshold the result is a copy equal to the
// input. An unknown metric or operator fails fast
func Apply(rows []schema.EnrichedVideoRow, dateRange Range, threshold *Threshold) ([]schema.EnrichedVideoRow, error) {
	if threshold != nil && !schema.ValidMetric(threshold.Metric) {
		return nil, perr.InvalidArgf("unknown metric %q", threshold.Metric)
	}

	out := make([]schema.EnrichedVideoRow, 0, len(rows))
	for _, r := range rows {
		if !dateRange.Contains(r.PublishedAt) {
			continue
		}
		if threshold != nil {
			v, err := schema.Metric(r, threshold.Metric)
			if err != nil {
				return nil, err
			}
			ok, err := threshold.satisfied(v)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}
