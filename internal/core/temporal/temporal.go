// Package temporal analyzes publish-time patterns over enriched video rows.
// The grid is always dense: 7 weekdays x 24 hours, every cell present, so
// consumers can render heatmaps without filling gaps
package temporal

import (
	"sort"
	"time"

	"tubelens/internal/core/schema"
	perr "tubelens/internal/platform/errors"
)

// DefaultMinSample is the minimum cell sample size for a publish window to be
// considered in ranked output. Small cells still appear in the grid
const DefaultMinSample = 2

// Cell is one (weekday, hour) grid slot
type Cell struct {
	Weekday    time.Weekday `json:"weekday"`
	Hour       int          `json:"hour"`
	SampleSize int64        `json:"sample_size"`
	Unknown    int64        `json:"unknown"`
	Mean       float64      `json:"mean"`
	Sum        float64      `json:"sum"`
}

// Options controls window ranking
type Options struct {
	// MinSample overrides DefaultMinSample when > 0
	MinSample int
}

func (o Options) minSample() int64 {
	if o.MinSample > 0 {
		return int64(o.MinSample)
	}
	return DefaultMinSample
}

// Grid folds metric into the dense 7x24 publish-time grid, ordered by
// (weekday, hour) ascending with Sunday first. Rows with an unknown metric
// count toward the cell's Unknown tally only
func Grid(rows []schema.EnrichedVideoRow, metric string) ([]Cell, error) {
	if !schema.ValidMetric(metric) {
		return nil, perr.InvalidArgf("unknown metric %q", metric)
	}

	var cells [7 * 24]Cell
	for wd := 0; wd < 7; wd++ {
		for h := 0; h < 24; h++ {
			cells[wd*24+h] = Cell{Weekday: time.Weekday(wd), Hour: h}
		}
	}

	for _, r := range rows {
		idx := int(r.PublishWeekday)*24 + r.PublishHour
		if idx < 0 || idx >= len(cells) {
			continue
		}
		c := &cells[idx]
		v, err := schema.Metric(r, metric)
		if err != nil {
			return nil, err
		}
		if !v.Known {
			c.Unknown++
			continue
		}
		c.SampleSize++
		c.Sum += v.Value
	}

	out := make([]Cell, len(cells))
	copy(out, cells[:])
	for i := range out {
		if out[i].SampleSize > 0 {
			out[i].Mean = out[i].Sum / float64(out[i].SampleSize)
		}
	}
	return out, nil
}

// OptimalWindows ranks publish windows by mean metric descending, ties broken
// by (weekday, hour) ascending. Cells under the minimum sample size are
// excluded; topK <= 0 returns empty
func OptimalWindows(rows []schema.EnrichedVideoRow, metric string, topK int, opt Options) ([]Cell, error) {
	if topK <= 0 {
		return []Cell{}, nil
	}
	grid, err := Grid(rows, metric)
	if err != nil {
		return nil, err
	}

	minSample := opt.minSample()
	eligible := make([]Cell, 0, len(grid))
	for _, c := range grid {
		if c.SampleSize >= minSample {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Mean != eligible[j].Mean {
			return eligible[i].Mean > eligible[j].Mean
		}
		if eligible[i].Weekday != eligible[j].Weekday {
			return eligible[i].Weekday < eligible[j].Weekday
		}
		return eligible[i].Hour < eligible[j].Hour
	})

	if topK > len(eligible) {
		topK = len(eligible)
	}
	return eligible[:topK], nil
}
