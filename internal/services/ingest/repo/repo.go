// Package repo provides postgres access for ingest
package repo

import (
	"context"

	"tubelens/internal/core/schema"
	"tubelens/internal/modkit/repokit"
	perr "tubelens/internal/platform/errors"
)

// Repo is the minimal persistence surface for ingest
type Repo interface {
	InsertChannelSnapshots(ctx context.Context, snaps []schema.ChannelSnapshot) error
	UpsertVideos(ctx context.Context, rows []schema.VideoRow) error
	UpsertComments(ctx context.Context, rows []schema.CommentRow) error
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// nullCount maps a tri-state count to a nullable SQL argument
func nullCount(c schema.Count) any {
	if !c.Known {
		return nil
	}
	return c.Value
}

// nullStat maps a tri-state stat to a nullable SQL argument
func nullStat(s schema.Stat) any {
	if !s.Known {
		return nil
	}
	return s.Value
}

func (r *queries) InsertChannelSnapshots(ctx context.Context, snaps []schema.ChannelSnapshot) error {
	// snapshots are append-only history keyed by (channel_id, fetched_at)
	const sql = `
insert into channel_snapshots
(channel_id, title, subscriber_count, total_view_count, video_count, created_at, fetched_at)
values ($1, $2, $3, $4, $5, $6, $7)
on conflict (channel_id, fetched_at) do nothing
`
	for _, s := range snaps {
		if _, err := r.q.Exec(ctx, sql,
			s.ChannelID, s.Title,
			nullCount(s.Subscribers), nullCount(s.TotalViews), nullCount(s.VideoCount),
			s.CreatedAt, s.FetchedAt,
		); err != nil {
			return perr.FromPostgresWithField(err, "insert channel snapshot")
		}
	}
	return nil
}

func (r *queries) UpsertVideos(ctx context.Context, rows []schema.VideoRow) error {
	// video_id and published_at are identity; refetches update the mutable
	// columns only
	const sql = `
insert into videos
(video_id, channel_id, title, published_at, duration_seconds, category, view_count, like_count, comment_count)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
on conflict (video_id) do update set
channel_id = excluded.channel_id,
title = excluded.title,
duration_seconds = excluded.duration_seconds,
category = excluded.category,
view_count = excluded.view_count,
like_count = excluded.like_count,
comment_count = excluded.comment_count
`
	for _, v := range rows {
		if _, err := r.q.Exec(ctx, sql,
			v.VideoID, v.ChannelID, v.Title, v.PublishedAt,
			nullCount(v.DurationSeconds), v.Category,
			nullCount(v.Views), nullCount(v.Likes), nullCount(v.Comments),
		); err != nil {
			return perr.FromPostgresWithField(err, "upsert video")
		}
	}
	return nil
}

func (r *queries) UpsertComments(ctx context.Context, rows []schema.CommentRow) error {
	const sql = `
insert into comments
(comment_id, video_id, author_id, body, like_count, published_at, sentiment_score)
values ($1, $2, $3, $4, $5, $6, $7)
on conflict (comment_id) do update set
body = excluded.body,
like_count = excluded.like_count,
sentiment_score = excluded.sentiment_score
`
	for _, c := range rows {
		var published any
		if !c.PublishedAt.IsZero() {
			published = c.PublishedAt
		}
		if _, err := r.q.Exec(ctx, sql,
			c.CommentID, c.VideoID, c.AuthorID, c.Text,
			nullCount(c.Likes), published, nullStat(c.Sentiment),
		); err != nil {
			return perr.FromPostgresWithField(err, "upsert comment")
		}
	}
	return nil
}
