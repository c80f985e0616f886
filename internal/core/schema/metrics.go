package schema

import (
	"sort"

	perr "tubelens/internal/platform/errors"
)

// Metric names accepted by aggregation, ranking, temporal analysis, and
// threshold filters. An unknown name anywhere is caller misuse and fails fast
const (
	MetricViews           = "views"
	MetricLikes           = "likes"
	MetricComments        = "comments"
	MetricEngagementRate  = "engagement_rate"
	MetricViewsPerDay     = "views_per_day"
	MetricDurationSeconds = "duration_seconds"
)

var metricAccessors = map[string]func(EnrichedVideoRow) Stat{
	MetricViews:           func(r EnrichedVideoRow) Stat { return r.Views.Stat() },
	MetricLikes:           func(r EnrichedVideoRow) Stat { return r.Likes.Stat() },
	MetricComments:        func(r EnrichedVideoRow) Stat { return r.Comments.Stat() },
	MetricEngagementRate:  func(r EnrichedVideoRow) Stat { return r.EngagementRate },
	MetricViewsPerDay:     func(r EnrichedVideoRow) Stat { return r.ViewsPerDay },
	MetricDurationSeconds: func(r EnrichedVideoRow) Stat { return r.DurationSeconds.Stat() },
}

// Metric resolves a metric name against a row, returning the tri-state value
func Metric(r EnrichedVideoRow, name string) (Stat, error) {
	fn, ok := metricAccessors[name]
	if !ok {
		return Stat{}, perr.InvalidArgf("unknown metric %q", name)
	}
	return fn(r), nil
}

// ValidMetric reports whether name is a known metric
func ValidMetric(name string) bool {
	_, ok := metricAccessors[name]
	return ok
}

// MetricNames returns the known metric names sorted ascending
func MetricNames() []string {
	out := make([]string, 0, len(metricAccessors))
	for k := range metricAccessors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
