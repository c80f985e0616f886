package aggregate

import (
	"sort"

	"tubelens/internal/core/schema"
)

// CommenterStat ranks an author by comment volume
type CommenterStat struct {
	AuthorID   string `json:"author_id"`
	Comments   int64  `json:"comments"`
	TotalLikes int64  `json:"total_likes"`
}

// TopCommenters ranks authors by comment count descending, ties broken by
// author_id ascending. Comments without an author are skipped. limit <= 0
// returns empty
func TopCommenters(comments []schema.CommentRow, limit int) []CommenterStat {
	if limit <= 0 {
		return []CommenterStat{}
	}
	byAuthor := make(map[string]*CommenterStat)
	for _, c := range comments {
		if c.AuthorID == "" {
			continue
		}
		s, ok := byAuthor[c.AuthorID]
		if !ok {
			s = &CommenterStat{AuthorID: c.AuthorID}
			byAuthor[c.AuthorID] = s
		}
		s.Comments++
		if c.Likes.Known {
			s.TotalLikes += c.Likes.Value
		}
	}

	out := make([]CommenterStat, 0, len(byAuthor))
	for _, s := range byAuthor {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Comments != out[j].Comments {
			return out[i].Comments > out[j].Comments
		}
		return out[i].AuthorID < out[j].AuthorID
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// VideoSentiment aggregates pre-computed sentiment per video.
// Unscored comments are tallied, never averaged in as zero
type VideoSentiment struct {
	VideoID  string  `json:"video_id"`
	Scored   int64   `json:"scored"`
	Unscored int64   `json:"unscored"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// SentimentByVideo folds comment sentiment into one row per video, ordered by
// video_id ascending. Videos whose comments are all unscored report
// Scored == 0 and zero-valued stats that callers must treat as undefined
func SentimentByVideo(comments []schema.CommentRow) []VideoSentiment {
	byVideo := make(map[string]*VideoSentiment)
	for _, c := range comments {
		v, ok := byVideo[c.VideoID]
		if !ok {
			v = &VideoSentiment{VideoID: c.VideoID}
			byVideo[c.VideoID] = v
		}
		if !c.Sentiment.Known {
			v.Unscored++
			continue
		}
		if v.Scored == 0 || c.Sentiment.Value < v.Min {
			v.Min = c.Sentiment.Value
		}
		if v.Scored == 0 || c.Sentiment.Value > v.Max {
			v.Max = c.Sentiment.Value
		}
		// Mean carries the running sum until the final pass
		v.Mean += c.Sentiment.Value
		v.Scored++
	}

	out := make([]VideoSentiment, 0, len(byVideo))
	for _, v := range byVideo {
		if v.Scored > 0 {
			v.Mean /= float64(v.Scored)
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VideoID < out[j].VideoID })
	return out
}
