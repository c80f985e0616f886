// Package schema defines the normalized row model shared by the analytics engine.
// Rows are immutable value types: every transformation produces new rows and
// leaves its input untouched
package schema

import "time"

// Count is a tri-state non-negative counter. Absent numeric fields normalize
// to an unknown Count, never to a bare zero, so ranking math can tell a real
// zero apart from missing data
type Count struct {
	Value int64
	Known bool
}

// KnownCount returns a known Count holding v
func KnownCount(v int64) Count { return Count{Value: v, Known: true} }

// UnknownCount returns the unknown Count
func UnknownCount() Count { return Count{} }

// Stat converts a Count into a Stat, preserving the known flag
func (c Count) Stat() Stat {
	if !c.Known {
		return Stat{}
	}
	return KnownStat(float64(c.Value))
}

// Stat is a tri-state float64 used for derived metrics and growth deltas.
// "undefined" is represented structurally, never as 0 or NaN
type Stat struct {
	Value float64
	Known bool
}

// KnownStat returns a known Stat holding v
func KnownStat(v float64) Stat { return Stat{Value: v, Known: true} }

// UnknownStat returns the unknown Stat
func UnknownStat() Stat { return Stat{} }

// ChannelSnapshot is one fetch snapshot of a channel.
// History is a sequence of snapshots keyed by (ChannelID, FetchedAt)
type ChannelSnapshot struct {
	ChannelID   string
	Title       string
	Subscribers Count
	TotalViews  Count
	VideoCount  Count
	CreatedAt   time.Time
	FetchedAt   time.Time
}

// VideoRow is a normalized video record.
// VideoID and PublishedAt are immutable identity; re-fetching the same video
// updates the mutable counters only
type VideoRow struct {
	VideoID         string
	ChannelID       string
	Title           string
	PublishedAt     time.Time
	DurationSeconds Count
	Category        string
	Views           Count
	Likes           Count
	Comments        Count
}

// CommentRow is a normalized comment record.
// Sentiment is supplied by an external scorer; unknown means "not yet scored",
// which is distinct from a neutral 0.0
type CommentRow struct {
	CommentID   string
	VideoID     string
	AuthorID    string
	Text        string
	Likes       Count
	PublishedAt time.Time
	Sentiment   Stat
}

// EnrichedVideoRow is the derived view over VideoRow. Its exported field set
// is the schema of the persisted columnar artifact; names and types are a
// compatibility contract for downstream consumers
type EnrichedVideoRow struct {
	VideoID         string
	ChannelID       string
	Title           string
	PublishedAt     time.Time
	DurationSeconds Count
	Category        string
	Views           Count
	Likes           Count
	Comments        Count

	EngagementRate Stat
	ViewsPerDay    Stat
	PublishWeekday time.Weekday
	PublishHour    int
}

// GrowthRow reports per-channel growth between the first and last snapshot.
// With a single snapshot the deltas stay unknown
type GrowthRow struct {
	ChannelID string
	Samples   int
	FirstAt   time.Time
	LastAt    time.Time

	SubscriberDelta Stat
	ViewDelta       Stat
	VideoDelta      Stat
}
