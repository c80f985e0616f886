package service

import (
	"context"
	"testing"
	"time"

	"tubelens/internal/core/schema"
	"tubelens/internal/modkit/repokit"
	"tubelens/internal/services/ingest/domain"
	"tubelens/internal/services/ingest/repo"
)

// captureRepo records what the service asked to persist
type captureRepo struct {
	snaps    []schema.ChannelSnapshot
	videos   []schema.VideoRow
	comments []schema.CommentRow
}

func (c *captureRepo) InsertChannelSnapshots(_ context.Context, snaps []schema.ChannelSnapshot) error {
	c.snaps = append(c.snaps, snaps...)
	return nil
}

func (c *captureRepo) UpsertVideos(_ context.Context, rows []schema.VideoRow) error {
	c.videos = append(c.videos, rows...)
	return nil
}

func (c *captureRepo) UpsertComments(_ context.Context, rows []schema.CommentRow) error {
	c.comments = append(c.comments, rows...)
	return nil
}

// captureDB records SQL issued directly on the tx so hook behavior is visible
type captureDB struct {
	sqls []string
}

func (d *captureDB) Exec(_ context.Context, sql string, _ ...any) (repokit.CommandTag, error) {
	d.sqls = append(d.sqls, sql)
	return nil, nil
}
func (d *captureDB) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, nil }
func (d *captureDB) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }
func (d *captureDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(d)
}

func newTestSvc(t *testing.T) (*Svc, *captureRepo, *captureDB) {
	t.Helper()
	cr := &captureRepo{}
	db := &captureDB{}
	s := New(db, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return cr }), repo.NewWarehouse(nil), Config{})
	s.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s, cr, db
}

func TestVideos_PersistsGoodRowsAndReportsBad(t *testing.T) {
	s, cr, db := newTestSvc(t)

	res, err := s.Videos(context.Background(), domain.BatchInput{Records: []map[string]any{
		{"video_id": "v1", "published_at": "2024-06-01T10:00:00Z", "view_count": float64(100)},
		{"video_id": "v2"}, // missing published_at
		{"video_id": "v3", "published_at": "2024-06-02T10:00:00Z"},
	}})
	if err != nil {
		t.Fatalf("videos: %v", err)
	}
	if res.Accepted != 2 || res.Rejected != 1 {
		t.Fatalf("result = %+v, want 2 accepted 1 rejected", res)
	}
	if res.BatchID == "" {
		t.Fatal("batch id must be set")
	}
	if len(res.Rejections) != 1 || res.Rejections[0].SourceIndex != 1 {
		t.Fatalf("rejections = %+v", res.Rejections)
	}
	if len(cr.videos) != 2 || cr.videos[0].VideoID != "v1" || cr.videos[1].VideoID != "v3" {
		t.Fatalf("persisted = %+v", cr.videos)
	}

	// the tx begin hook caps lock waits
	if len(db.sqls) == 0 || db.sqls[0] != `set local statement_timeout = '30s'` {
		t.Fatalf("first tx statement = %v, want the statement_timeout hook", db.sqls)
	}
}

func TestChannels_AppendsSnapshots(t *testing.T) {
	s, cr, _ := newTestSvc(t)

	res, err := s.Channels(context.Background(), domain.BatchInput{Records: []map[string]any{
		{"channel_id": "c1", "fetched_at": "2024-06-01T00:00:00Z", "subscriber_count": float64(100)},
	}})
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if res.Accepted != 1 || res.Rejected != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(cr.snaps) != 1 || !cr.snaps[0].Subscribers.Known || cr.snaps[0].Subscribers.Value != 100 {
		t.Fatalf("snaps = %+v", cr.snaps)
	}
}

func TestComments_TriStateSentimentSurvivesPipeline(t *testing.T) {
	s, cr, _ := newTestSvc(t)

	_, err := s.Comments(context.Background(), domain.BatchInput{Records: []map[string]any{
		{"comment_id": "m1", "video_id": "v1", "sentiment_score": 0.9},
		{"comment_id": "m2", "video_id": "v1"},
	}})
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(cr.comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(cr.comments))
	}
	if !cr.comments[0].Sentiment.Known || cr.comments[1].Sentiment.Known {
		t.Fatalf("sentiment tri-state lost: %+v", cr.comments)
	}
}
