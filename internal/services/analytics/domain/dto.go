// Package domain holds DTOs for analytics http and service contracts
package domain

import (
	"time"

	"tubelens/internal/core/filterkit"
	"tubelens/internal/core/schema"
)

// EngineOptions override the server defaults per request
type EngineOptions struct {
	// AsOf anchors age based metrics; empty means the request time
	AsOf *time.Time `json:"as_of,omitempty" example:"2026-08-01T00:00:00Z"`
	// TZ is the IANA timezone for weekday/hour/date keys; empty means the
	// server default
	TZ string `json:"tz,omitempty" validate:"omitempty,iana_tz" example:"America/New_York"`
}

// Filter narrows the dataset before any aggregation runs
type Filter struct {
	Range     filterkit.Range      `json:"range"`
	Threshold *filterkit.Threshold `json:"threshold,omitempty"`
}

// TopVideosInput ranks videos by one metric
type TopVideosInput struct {
	Filter Filter        `json:"filter"`
	Engine EngineOptions `json:"engine"`
	Metric string        `json:"metric" validate:"required" example:"engagement_rate"`
	N      int           `json:"n" validate:"required,min=1,max=500" example:"10"`
}

// BucketsInput groups videos along dimensions and folds one metric.
// Percentile is only read when Op is "percentile"
type BucketsInput struct {
	Filter     Filter        `json:"filter"`
	Engine     EngineOptions `json:"engine"`
	GroupBy    []string      `json:"group_by" validate:"required,min=1,max=3" example:"category"`
	Metric     string        `json:"metric" validate:"required" example:"views"`
	Op         string        `json:"op" validate:"required,oneof=sum mean count percentile" example:"mean"`
	Percentile float64       `json:"percentile,omitempty" validate:"omitempty,gte=0,lte=100" example:"90"`
}

// SummaryInput asks for the dataset overview block
type SummaryInput struct {
	Filter Filter        `json:"filter"`
	Engine EngineOptions `json:"engine"`
}

// HeatmapInput asks for the dense weekday x hour grid
type HeatmapInput struct {
	Filter Filter        `json:"filter"`
	Engine EngineOptions `json:"engine"`
	Metric string        `json:"metric" validate:"required" example:"views_per_day"`
}

// WindowsInput ranks publish windows
type WindowsInput struct {
	Filter    Filter        `json:"filter"`
	Engine    EngineOptions `json:"engine"`
	Metric    string        `json:"metric" validate:"required" example:"engagement_rate"`
	TopK      int           `json:"top_k" validate:"required,min=1,max=168" example:"5"`
	MinSample int           `json:"min_sample,omitempty" validate:"omitempty,min=1" example:"2"`
}

// GrowthInput selects snapshot history, optionally for one channel.
// Range bounds snapshot fetch times
type GrowthInput struct {
	Range     filterkit.Range `json:"range"`
	ChannelID string          `json:"channel_id,omitempty" validate:"omitempty,min=1,max=128" example:"UC123"`
}

// CommentersInput ranks comment authors by volume.
// Range bounds comment publish times
type CommentersInput struct {
	Range filterkit.Range `json:"range"`
	Limit int             `json:"limit" validate:"required,min=1,max=500" example:"20"`
}

// KeywordsInput reports title keyword performance
type KeywordsInput struct {
	Filter   Filter        `json:"filter"`
	Engine   EngineOptions `json:"engine"`
	Keywords []string      `json:"keywords" validate:"required,min=1,max=50,dive,min=1,max=100" example:"tutorial"`
}

// SentimentInput selects comment sentiment aggregates, optionally per video.
// Range bounds comment publish times
type SentimentInput struct {
	Range   filterkit.Range `json:"range"`
	VideoID string          `json:"video_id,omitempty" validate:"omitempty,min=1,max=128" example:"dQw4w9WgXcQ"`
}

// VideoOut is the wire form of an enriched video row.
// Unknown tri-state values serialize as null, never as 0
type VideoOut struct {
	VideoID         string    `json:"video_id"`
	ChannelID       string    `json:"channel_id,omitempty"`
	Title           string    `json:"title"`
	PublishedAt     time.Time `json:"published_at"`
	Category        string    `json:"category,omitempty"`
	DurationSeconds *int64    `json:"duration_seconds"`
	Views           *int64    `json:"views"`
	Likes           *int64    `json:"likes"`
	Comments        *int64    `json:"comments"`
	EngagementRate  *float64  `json:"engagement_rate"`
	ViewsPerDay     *float64  `json:"views_per_day"`
	PublishWeekday  string    `json:"publish_weekday"`
	PublishHour     int       `json:"publish_hour"`
}

// FromEnriched converts an engine row to its wire form
func FromEnriched(r schema.EnrichedVideoRow) VideoOut {
	return VideoOut{
		VideoID:         r.VideoID,
		ChannelID:       r.ChannelID,
		Title:           r.Title,
		PublishedAt:     r.PublishedAt,
		Category:        r.Category,
		DurationSeconds: countPtr(r.DurationSeconds),
		Views:           countPtr(r.Views),
		Likes:           countPtr(r.Likes),
		Comments:        countPtr(r.Comments),
		EngagementRate:  statPtr(r.EngagementRate),
		ViewsPerDay:     statPtr(r.ViewsPerDay),
		PublishWeekday:  r.PublishWeekday.String(),
		PublishHour:     r.PublishHour,
	}
}

// GrowthOut is the wire form of a channel growth row
type GrowthOut struct {
	ChannelID       string    `json:"channel_id"`
	Samples         int       `json:"samples"`
	FirstAt         time.Time `json:"first_at"`
	LastAt          time.Time `json:"last_at"`
	SubscriberDelta *float64  `json:"subscriber_delta"`
	ViewDelta       *float64  `json:"view_delta"`
	VideoDelta      *float64  `json:"video_delta"`
}

// FromGrowth converts an engine growth row to its wire form
func FromGrowth(r schema.GrowthRow) GrowthOut {
	return GrowthOut{
		ChannelID:       r.ChannelID,
		Samples:         r.Samples,
		FirstAt:         r.FirstAt,
		LastAt:          r.LastAt,
		SubscriberDelta: statPtr(r.SubscriberDelta),
		ViewDelta:       statPtr(r.ViewDelta),
		VideoDelta:      statPtr(r.VideoDelta),
	}
}

func countPtr(c schema.Count) *int64 {
	if !c.Known {
		return nil
	}
	v := c.Value
	return &v
}

func statPtr(s schema.Stat) *float64 {
	if !s.Known {
		return nil
	}
	v := s.Value
	return &v
}
