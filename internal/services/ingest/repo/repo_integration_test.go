//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"tubelens/internal/core/schema"
	"tubelens/internal/platform/store"
	analyticsrepo "tubelens/internal/services/analytics/repo"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const ddl = `
create table channel_snapshots (
	channel_id text not null,
	title text not null default '',
	subscriber_count bigint,
	total_view_count bigint,
	video_count bigint,
	created_at timestamptz not null default now(),
	fetched_at timestamptz not null,
	primary key (channel_id, fetched_at)
);
create table videos (
	video_id text primary key,
	channel_id text not null default '',
	title text not null default '',
	published_at timestamptz not null,
	duration_seconds bigint,
	category text not null default '',
	view_count bigint,
	like_count bigint,
	comment_count bigint
);
create table comments (
	comment_id text primary key,
	video_id text not null,
	author_id text not null default '',
	body text not null default '',
	like_count bigint,
	published_at timestamptz,
	sentiment_score double precision
);
`

func TestUpsertAndReadBack_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "tubelens-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store open: %v", err)
	}
	defer st.Close(context.Background())

	if _, err := st.PG.Exec(ctx, ddl); err != nil {
		t.Fatalf("apply ddl: %v", err)
	}

	w := NewPG().Bind(st.PG)
	r := analyticsrepo.NewPG().Bind(st.PG)

	published := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	first := schema.VideoRow{
		VideoID:     "v1",
		ChannelID:   "c1",
		Title:       "first fetch",
		PublishedAt: published,
		Category:    "Music",
		Views:       schema.KnownCount(100),
		Likes:       schema.UnknownCount(),
		Comments:    schema.KnownCount(3),
	}
	if err := w.UpsertVideos(ctx, []schema.VideoRow{first}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// refetch with new counters and a different published_at; identity wins
	second := first
	second.Title = "second fetch"
	second.PublishedAt = published.AddDate(0, 0, 5)
	second.Views = schema.KnownCount(250)
	second.Likes = schema.KnownCount(10)
	if err := w.UpsertVideos(ctx, []schema.VideoRow{second}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	n, err := store.Scalar[int64](ctx, st.PG, `select count(*) from videos`)
	if err != nil {
		t.Fatalf("count videos: %v", err)
	}
	if n != 1 {
		t.Fatalf("videos = %d, upsert must not duplicate", n)
	}

	rows, err := r.ListVideos(ctx, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	got := rows[0]
	if got.Title != "second fetch" {
		t.Fatalf("title = %q, mutable columns must update", got.Title)
	}
	if !got.PublishedAt.Equal(published) {
		t.Fatalf("published_at = %v, identity column must not move", got.PublishedAt)
	}
	if !got.Views.Known || got.Views.Value != 250 {
		t.Fatalf("views = %+v", got.Views)
	}
	if !got.Likes.Known || got.Likes.Value != 10 {
		t.Fatalf("likes = %+v", got.Likes)
	}

	// snapshot history is append-only and tri-state survives the round trip
	fetched := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snaps := []schema.ChannelSnapshot{
		{ChannelID: "c1", Title: "chan", Subscribers: schema.KnownCount(100), TotalViews: schema.UnknownCount(), VideoCount: schema.KnownCount(5), CreatedAt: fetched, FetchedAt: fetched},
		{ChannelID: "c1", Title: "chan", Subscribers: schema.KnownCount(100), TotalViews: schema.UnknownCount(), VideoCount: schema.KnownCount(5), CreatedAt: fetched, FetchedAt: fetched},
	}
	if err := w.InsertChannelSnapshots(ctx, snaps); err != nil {
		t.Fatalf("insert snapshots: %v", err)
	}
	back, err := r.ListSnapshots(ctx, "c1")
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(back) != 1 {
		t.Fatalf("snapshots = %d, duplicate (channel_id, fetched_at) must be ignored", len(back))
	}
	if back[0].TotalViews.Known {
		t.Fatalf("null column must come back unknown: %+v", back[0].TotalViews)
	}
}
