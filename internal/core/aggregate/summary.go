package aggregate

import (
	"sort"

	"tubelens/internal/core/schema"
)

// MetricSummary is the avg/median/total block for one metric.
// Known is the sample size; Unknown counts the rows excluded from arithmetic
type MetricSummary struct {
	Known   int64   `json:"known"`
	Unknown int64   `json:"unknown"`
	Total   float64 `json:"total"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
}

// Summary is the dataset overview block
type Summary struct {
	Videos         int64         `json:"videos"`
	Views          MetricSummary `json:"views"`
	Likes          MetricSummary `json:"likes"`
	Comments       MetricSummary `json:"comments"`
	EngagementRate MetricSummary `json:"engagement_rate"`
}

// Summarize computes the overview block over all rows
func Summarize(rows []schema.EnrichedVideoRow) Summary {
	return Summary{
		Videos:         int64(len(rows)),
		Views:          summarizeMetric(rows, schema.MetricViews),
		Likes:          summarizeMetric(rows, schema.MetricLikes),
		Comments:       summarizeMetric(rows, schema.MetricComments),
		EngagementRate: summarizeMetric(rows, schema.MetricEngagementRate),
	}
}

func summarizeMetric(rows []schema.EnrichedVideoRow, metric string) MetricSummary {
	var out MetricSummary
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		v, err := schema.Metric(r, metric)
		if err != nil || !v.Known {
			out.Unknown++
			continue
		}
		out.Total += v.Value
		values = append(values, v.Value)
	}
	out.Known = int64(len(values))
	if len(values) > 0 {
		out.Mean = out.Total / float64(len(values))
		sort.Float64s(values)
		out.Median = percentileSorted(values, 50)
	}
	return out
}
