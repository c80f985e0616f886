package aggregate

import (
	"sort"
	"strings"

	"tubelens/internal/core/schema"
)

// KeywordStat reports how videos whose title contains a keyword perform
type KeywordStat struct {
	Keyword     string  `json:"keyword"`
	Videos      int64   `json:"videos"`
	MeanViews   float64 `json:"mean_views"`
	KnownViews  int64   `json:"known_views"`
	MedianViews float64 `json:"median_views"`
}

// KeywordStats matches each keyword against titles (case-insensitive
// substring) and summarizes view performance per keyword. A video can count
// toward several keywords. Output preserves the caller's keyword order
func KeywordStats(rows []schema.EnrichedVideoRow, keywords []string) []KeywordStat {
	out := make([]KeywordStat, 0, len(keywords))
	for _, kw := range keywords {
		needle := strings.ToLower(strings.TrimSpace(kw))
		stat := KeywordStat{Keyword: kw}
		if needle == "" {
			out = append(out, stat)
			continue
		}

		var views []float64
		var sum float64
		for _, r := range rows {
			if !strings.Contains(strings.ToLower(r.Title), needle) {
				continue
			}
			stat.Videos++
			if r.Views.Known {
				sum += float64(r.Views.Value)
				views = append(views, float64(r.Views.Value))
			}
		}
		stat.KnownViews = int64(len(views))
		if len(views) > 0 {
			stat.MeanViews = sum / float64(len(views))
			sort.Float64s(views)
			stat.MedianViews = percentileSorted(views, 50)
		}
		out = append(out, stat)
	}
	return out
}
