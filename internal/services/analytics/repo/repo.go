// Package repo provides postgres access for analytics
package repo

import (
	"context"
	"time"

	"tubelens/internal/core/schema"
	"tubelens/internal/modkit/repokit"
	perr "tubelens/internal/platform/errors"
	"tubelens/internal/platform/store"
)

// Repo is the minimal read surface for analytics
type Repo interface {
	ListVideos(ctx context.Context, start, end *time.Time) ([]schema.VideoRow, error)
	ListSnapshots(ctx context.Context, channelID string) ([]schema.ChannelSnapshot, error)
	ListComments(ctx context.Context, videoID string) ([]schema.CommentRow, error)
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

func count(v *int64) schema.Count {
	if v == nil {
		return schema.UnknownCount()
	}
	return schema.KnownCount(*v)
}

func stat(v *float64) schema.Stat {
	if v == nil {
		return schema.UnknownStat()
	}
	return schema.KnownStat(*v)
}

func (r *queries) ListVideos(ctx context.Context, start, end *time.Time) ([]schema.VideoRow, error) {
	// the date range is pushed down so wide tables do not stream rows the
	// engine would drop anyway
	const sql = `
select video_id, channel_id, title, published_at, duration_seconds, category,
view_count, like_count, comment_count
from videos
where ($1::timestamptz is null or published_at >= $1)
and ($2::timestamptz is null or published_at <= $2)
order by published_at asc, video_id asc
`
	out, err := store.Many(ctx, r.q, scanVideo, sql, start, end)
	if err != nil {
		return nil, perr.FromPostgres(err, "list videos")
	}
	return out, nil
}

func scanVideo(row store.Row) (schema.VideoRow, error) {
	var (
		v                                schema.VideoRow
		duration, views, likes, comments *int64
	)
	if err := row.Scan(
		&v.VideoID, &v.ChannelID, &v.Title, &v.PublishedAt,
		&duration, &v.Category, &views, &likes, &comments,
	); err != nil {
		return schema.VideoRow{}, err
	}
	v.DurationSeconds = count(duration)
	v.Views = count(views)
	v.Likes = count(likes)
	v.Comments = count(comments)
	return v, nil
}

func (r *queries) ListSnapshots(ctx context.Context, channelID string) ([]schema.ChannelSnapshot, error) {
	const sql = `
select channel_id, title, subscriber_count, total_view_count, video_count, created_at, fetched_at
from channel_snapshots
where ($1 = '' or channel_id = $1)
order by channel_id asc, fetched_at asc
`
	out, err := store.Many(ctx, r.q, scanSnapshot, sql, channelID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list snapshots")
	}
	return out, nil
}

func scanSnapshot(row store.Row) (schema.ChannelSnapshot, error) {
	var (
		s                   schema.ChannelSnapshot
		subs, views, videos *int64
	)
	if err := row.Scan(&s.ChannelID, &s.Title, &subs, &views, &videos, &s.CreatedAt, &s.FetchedAt); err != nil {
		return schema.ChannelSnapshot{}, err
	}
	s.Subscribers = count(subs)
	s.TotalViews = count(views)
	s.VideoCount = count(videos)
	return s, nil
}

func (r *queries) ListComments(ctx context.Context, videoID string) ([]schema.CommentRow, error) {
	const sql = `
select comment_id, video_id, author_id, body, like_count, published_at, sentiment_score
from comments
where ($1 = '' or video_id = $1)
order by video_id asc, comment_id asc
`
	out, err := store.Many(ctx, r.q, scanComment, sql, videoID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list comments")
	}
	return out, nil
}

func scanComment(row store.Row) (schema.CommentRow, error) {
	var (
		c         schema.CommentRow
		likes     *int64
		published *time.Time
		sentiment *float64
	)
	if err := row.Scan(&c.CommentID, &c.VideoID, &c.AuthorID, &c.Text, &likes, &published, &sentiment); err != nil {
		return schema.CommentRow{}, err
	}
	c.Likes = count(likes)
	if published != nil {
		c.PublishedAt = *published
	}
	c.Sentiment = stat(sentiment)
	return c, nil
}
