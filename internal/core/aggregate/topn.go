package aggregate

import (
	"sort"

	"tubelens/internal/core/schema"
	perr "tubelens/internal/platform/errors"
)

// TopN returns the n best rows by metric, descending, with ties broken by
// video_id ascending so repeated calls over the same input return the same
// slice. Rows whose metric is unknown never rank. n <= 0 returns empty;
// n past the eligible count returns everything eligible
func TopN(rows []schema.EnrichedVideoRow, metric string, n int) ([]schema.EnrichedVideoRow, error) {
	if !schema.ValidMetric(metric) {
		return nil, perr.InvalidArgf("unknown metric %q", metric)
	}
	if n <= 0 {
		return []schema.EnrichedVideoRow{}, nil
	}

	type ranked struct {
		row   schema.EnrichedVideoRow
		value float64
	}
	eligible := make([]ranked, 0, len(rows))
	for _, r := range rows {
		v, err := schema.Metric(r, metric)
		if err != nil {
			return nil, err
		}
		if !v.Known {
			continue
		}
		eligible = append(eligible, ranked{row: r, value: v.Value})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].value != eligible[j].value {
			return eligible[i].value > eligible[j].value
		}
		return eligible[i].row.VideoID < eligible[j].row.VideoID
	})

	if n > len(eligible) {
		n = len(eligible)
	}
	out := make([]schema.EnrichedVideoRow, 0, n)
	for _, e := range eligible[:n] {
		out = append(out, e.row)
	}
	return out, nil
}
