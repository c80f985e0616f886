// Package normalize converts raw nested API-shaped records into the flat
// typed rows of the schema package. Malformed records are rejected into a
// diagnostics list and never abort the batch; output preserves input order
// and performs no deduplication
package normalize

import (
	"time"

	"tubelens/internal/core/schema"
)

// Rejection describes one record the normalizer refused, with enough context
// (index, field) to diagnose it
type Rejection struct {
	SourceIndex int    `json:"source_index"`
	Field       string `json:"field"`
	Reason      string `json:"reason"`
}

// Channels normalizes raw channel snapshot records.
// Required: channel_id and fetched_at (the snapshot identity key)
func Channels(raw []map[string]any) ([]schema.ChannelSnapshot, []Rejection) {
	out := make([]schema.ChannelSnapshot, 0, len(raw))
	var rej []Rejection

	for i, m := range raw {
		id, ok := stringField(m, "channel_id", "id")
		if !ok {
			rej = append(rej, Rejection{SourceIndex: i, Field: "channel_id", Reason: "missing"})
			continue
		}
		fetched, field, reason := timeField(m, "fetched_at")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}

		subs, field, reason := countField(m, "subscriber_count", "statistics.subscriberCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}
		views, field, reason := countField(m, "total_view_count", "statistics.viewCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}
		vids, field, reason := countField(m, "video_count", "statistics.videoCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}

		var created time.Time
		if _, _, present := lookup(m, "created_at", "snippet.publishedAt"); present {
			created, field, reason = timeField(m, "created_at", "snippet.publishedAt")
			if reason != "" {
				rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
				continue
			}
		}

		title, _ := stringField(m, "title", "snippet.title")

		out = append(out, schema.ChannelSnapshot{
			ChannelID:   id,
			Title:       CleanText(title),
			Subscribers: subs,
			TotalViews:  views,
			VideoCount:  vids,
			CreatedAt:   created,
			FetchedAt:   fetched,
		})
	}
	return out, rej
}

// Videos normalizes raw video records.
// Required: video_id and published_at. Counters stay unknown when absent
func Videos(raw []map[string]any) ([]schema.VideoRow, []Rejection) {
	out := make([]schema.VideoRow, 0, len(raw))
	var rej []Rejection

	for i, m := range raw {
		id, ok := stringField(m, "video_id", "id")
		if !ok {
			rej = append(rej, Rejection{SourceIndex: i, Field: "video_id", Reason: "missing"})
			continue
		}
		published, field, reason := timeField(m, "published_at", "snippet.publishedAt")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}

		views, field, reason := countField(m, "view_count", "statistics.viewCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}
		likes, field, reason := countField(m, "like_count", "statistics.likeCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}
		comments, field, reason := countField(m, "comment_count", "statistics.commentCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}

		dur, field, reason := durationField(m)
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}

		channelID, _ := stringField(m, "channel_id", "snippet.channelId")
		title, _ := stringField(m, "title", "snippet.title")

		category, _ := stringField(m, "category")
		if category == "" {
			if catID, present := stringField(m, "category_id", "snippet.categoryId"); present {
				category = CategoryName(catID)
			}
		}

		out = append(out, schema.VideoRow{
			VideoID:         id,
			ChannelID:       channelID,
			Title:           CleanText(title),
			PublishedAt:     published,
			DurationSeconds: dur,
			Category:        category,
			Views:           views,
			Likes:           likes,
			Comments:        comments,
		})
	}
	return out, rej
}

// Comments normalizes raw comment records.
// Required: comment_id and video_id. sentiment_score, when present, must be
// a float in [-1,1]; absent means "not yet scored" and stays unknown
func Comments(raw []map[string]any) ([]schema.CommentRow, []Rejection) {
	out := make([]schema.CommentRow, 0, len(raw))
	var rej []Rejection

	for i, m := range raw {
		id, ok := stringField(m, "comment_id", "id")
		if !ok {
			rej = append(rej, Rejection{SourceIndex: i, Field: "comment_id", Reason: "missing"})
			continue
		}
		videoID, ok := stringField(m, "video_id", "snippet.videoId")
		if !ok {
			rej = append(rej, Rejection{SourceIndex: i, Field: "video_id", Reason: "missing"})
			continue
		}

		likes, field, reason := countField(m, "like_count", "snippet.likeCount")
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
			continue
		}

		var published time.Time
		if _, _, present := lookup(m, "published_at", "snippet.publishedAt"); present {
			published, field, reason = timeField(m, "published_at", "snippet.publishedAt")
			if reason != "" {
				rej = append(rej, Rejection{SourceIndex: i, Field: field, Reason: reason})
				continue
			}
		}

		sentiment, reason := sentimentField(m)
		if reason != "" {
			rej = append(rej, Rejection{SourceIndex: i, Field: "sentiment_score", Reason: reason})
			continue
		}

		authorID, _ := stringField(m, "author_id", "snippet.authorChannelId")
		text, _ := stringField(m, "text", "snippet.textOriginal")

		out = append(out, schema.CommentRow{
			CommentID:   id,
			VideoID:     videoID,
			AuthorID:    authorID,
			Text:        CleanText(text),
			Likes:       likes,
			PublishedAt: published,
			Sentiment:   sentiment,
		})
	}
	return out, rej
}
