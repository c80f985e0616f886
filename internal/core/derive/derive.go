// Package derive computes per-video metrics and channel growth from
// normalized rows. Every function is pure: no I/O, no clock reads, no
// mutation of inputs
package derive

import (
	"time"

	"tubelens/internal/core/schema"
	"tubelens/internal/platform/timeutil"
)

// Options controls metric derivation.
// AsOf anchors age-based metrics so replays are reproducible; the zero value
// is invalid and callers are expected to pass an explicit instant.
// Location is the display timezone for weekday/hour extraction; nil means UTC
type Options struct {
	AsOf     time.Time
	Location *time.Location
}

// Videos derives an EnrichedVideoRow per input row, preserving input order.
//
// engagement_rate = (likes + comments) / views. Views of exactly zero yield
// a known 0.0 (no engagement is a real observation); unknown inputs propagate
// to an unknown Stat.
//
// views_per_day = views / max(1, whole days between published_at and AsOf),
// so videos published within the last day get their raw view count
func Videos(rows []schema.VideoRow, opt Options) []schema.EnrichedVideoRow {
	loc := timeutil.OrUTC(opt.Location)

	out := make([]schema.EnrichedVideoRow, 0, len(rows))
	for _, r := range rows {
		local := r.PublishedAt.In(loc)
		out = append(out, schema.EnrichedVideoRow{
			VideoID:         r.VideoID,
			ChannelID:       r.ChannelID,
			Title:           r.Title,
			PublishedAt:     r.PublishedAt,
			DurationSeconds: r.DurationSeconds,
			Category:        r.Category,
			Views:           r.Views,
			Likes:           r.Likes,
			Comments:        r.Comments,

			EngagementRate: engagementRate(r),
			ViewsPerDay:    viewsPerDay(r, opt.AsOf),
			PublishWeekday: local.Weekday(),
			PublishHour:    local.Hour(),
		})
	}
	return out
}

func engagementRate(r schema.VideoRow) schema.Stat {
	if !r.Views.Known || !r.Likes.Known || !r.Comments.Known {
		return schema.UnknownStat()
	}
	if r.Views.Value == 0 {
		return schema.KnownStat(0)
	}
	return schema.KnownStat(float64(r.Likes.Value+r.Comments.Value) / float64(r.Views.Value))
}

func viewsPerDay(r schema.VideoRow, asOf time.Time) schema.Stat {
	if !r.Views.Known {
		return schema.UnknownStat()
	}
	days := timeutil.DaysSince(r.PublishedAt, asOf)
	if days < 1 {
		days = 1
	}
	return schema.KnownStat(float64(r.Views.Value) / float64(days))
}
