package service

import (
	"context"
	"testing"
	"time"

	"tubelens/internal/core/filterkit"
	"tubelens/internal/core/schema"
	"tubelens/internal/modkit/repokit"
	perr "tubelens/internal/platform/errors"
	"tubelens/internal/services/analytics/domain"
	"tubelens/internal/services/analytics/repo"
)

// fakeRepo serves canned rows so tests exercise the engine wiring only
type fakeRepo struct {
	videos   []schema.VideoRow
	snaps    []schema.ChannelSnapshot
	comments []schema.CommentRow
}

func (f *fakeRepo) ListVideos(_ context.Context, start, end *time.Time) ([]schema.VideoRow, error) {
	var out []schema.VideoRow
	for _, v := range f.videos {
		if start != nil && v.PublishedAt.Before(*start) {
			continue
		}
		if end != nil && v.PublishedAt.After(*end) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRepo) ListSnapshots(_ context.Context, channelID string) ([]schema.ChannelSnapshot, error) {
	if channelID == "" {
		return f.snaps, nil
	}
	var out []schema.ChannelSnapshot
	for _, s := range f.snaps {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListComments(_ context.Context, videoID string) ([]schema.CommentRow, error) {
	if videoID == "" {
		return f.comments, nil
	}
	var out []schema.CommentRow
	for _, c := range f.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	return out, nil
}

// noopDB satisfies TxRunner; the fake repo never touches it
type noopDB struct{}

func (noopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (noopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (noopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (noopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(noopDB{}) }

var asOf = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newSvc(t *testing.T, f *fakeRepo, cfg Config) *Svc {
	t.Helper()
	s := New(noopDB{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }), cfg)
	s.Repo = f
	s.now = func() time.Time { return asOf }
	return s
}

func vid(id string, at time.Time, views, likes, comments int64) schema.VideoRow {
	return schema.VideoRow{
		VideoID:     id,
		PublishedAt: at,
		Views:       schema.KnownCount(views),
		Likes:       schema.KnownCount(likes),
		Comments:    schema.KnownCount(comments),
	}
}

func TestTopVideos_RanksAndShapesOutput(t *testing.T) {
	at := asOf.AddDate(0, 0, -10)
	f := &fakeRepo{videos: []schema.VideoRow{
		vid("v1", at, 100, 10, 0),
		vid("v2", at, 500, 5, 0),
		vid("v3", at, 300, 3, 0),
	}}
	s := newSvc(t, f, Config{})

	out, err := s.TopVideos(context.Background(), domain.TopVideosInput{Metric: "views", N: 2})
	if err != nil {
		t.Fatalf("top videos: %v", err)
	}
	if len(out) != 2 || out[0].VideoID != "v2" || out[1].VideoID != "v3" {
		t.Fatalf("out = %+v, want [v2 v3]", out)
	}
	if out[0].Views == nil || *out[0].Views != 500 {
		t.Fatalf("v2 views = %v", out[0].Views)
	}
	// derived fields ride along on the wire shape
	if out[0].ViewsPerDay == nil || *out[0].ViewsPerDay != 50 {
		t.Fatalf("v2 views_per_day = %v, want 50", out[0].ViewsPerDay)
	}
}

func TestTopVideos_ThresholdAppliesBeforeRanking(t *testing.T) {
	at := asOf.AddDate(0, 0, -10)
	f := &fakeRepo{videos: []schema.VideoRow{
		vid("big", at, 1000, 1, 0),
		vid("small", at, 10, 9, 0),
	}}
	s := newSvc(t, f, Config{})

	out, err := s.TopVideos(context.Background(), domain.TopVideosInput{
		Filter: domain.Filter{Threshold: &filterkit.Threshold{Metric: "views", Op: filterkit.OpLT, Value: 100}},
		Metric: "views",
		N:      10,
	})
	if err != nil {
		t.Fatalf("top videos: %v", err)
	}
	if len(out) != 1 || out[0].VideoID != "small" {
		t.Fatalf("out = %+v, want only small", out)
	}
}

func TestWindows_SampleFloor(t *testing.T) {
	mon := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC) // Monday 14h UTC
	tue := time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC)  // Tuesday 9h UTC
	f := &fakeRepo{videos: []schema.VideoRow{
		vid("m1", mon, 100, 0, 0),
		vid("m2", mon, 200, 0, 0),
		vid("m3", mon, 300, 0, 0),
		vid("t1", tue, 50, 0, 0),
	}}
	s := newSvc(t, f, Config{})

	wins, err := s.Windows(context.Background(), domain.WindowsInput{Metric: "views", TopK: 1})
	if err != nil {
		t.Fatalf("windows: %v", err)
	}
	if len(wins) != 1 {
		t.Fatalf("wins = %d, want 1", len(wins))
	}
	w := wins[0]
	if w.Weekday != time.Monday || w.Hour != 14 || w.Mean != 200 || w.SampleSize != 3 {
		t.Fatalf("window = %+v, want Monday 14h mean 200 n 3", w)
	}
}

func TestGrowth_WireNulls(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f := &fakeRepo{snaps: []schema.ChannelSnapshot{
		{ChannelID: "c1", FetchedAt: t0, Subscribers: schema.KnownCount(100), TotalViews: schema.KnownCount(1000), VideoCount: schema.KnownCount(5)},
		{ChannelID: "c1", FetchedAt: t0.AddDate(0, 0, 7), Subscribers: schema.KnownCount(150), TotalViews: schema.KnownCount(1500), VideoCount: schema.KnownCount(6)},
		{ChannelID: "c2", FetchedAt: t0, Subscribers: schema.KnownCount(10), TotalViews: schema.KnownCount(10), VideoCount: schema.KnownCount(1)},
	}}
	s := newSvc(t, f, Config{})

	out, err := s.Growth(context.Background(), domain.GrowthInput{})
	if err != nil {
		t.Fatalf("growth: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("out = %d, want 2", len(out))
	}
	if out[0].SubscriberDelta == nil || *out[0].SubscriberDelta != 50 {
		t.Fatalf("c1 delta = %v, want 50", out[0].SubscriberDelta)
	}
	// single snapshot serializes as null, never 0
	if out[1].SubscriberDelta != nil || out[1].ViewDelta != nil {
		t.Fatalf("c2 deltas must be null: %+v", out[1])
	}
}

func TestEngineOptions_TZAndAsOf(t *testing.T) {
	// Saturday 02:30 UTC is Friday evening in New York
	at := time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC)
	f := &fakeRepo{videos: []schema.VideoRow{vid("v1", at, 100, 0, 0)}}
	s := newSvc(t, f, Config{})

	out, err := s.TopVideos(context.Background(), domain.TopVideosInput{
		Engine: domain.EngineOptions{TZ: "America/New_York"},
		Metric: "views",
		N:      1,
	})
	if err != nil {
		t.Fatalf("top videos: %v", err)
	}
	if out[0].PublishWeekday != "Friday" || out[0].PublishHour != 22 {
		t.Fatalf("local publish slot = (%s, %d), want (Friday, 22)", out[0].PublishWeekday, out[0].PublishHour)
	}

	_, err = s.TopVideos(context.Background(), domain.TopVideosInput{
		Engine: domain.EngineOptions{TZ: "Mars/Olympus"},
		Metric: "views",
		N:      1,
	})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad tz err = %v, want invalid argument", err)
	}
}

func TestBuckets_OpSelectsFold(t *testing.T) {
	at := asOf.AddDate(0, 0, -10)
	f := &fakeRepo{videos: []schema.VideoRow{
		vid("v1", at, 100, 0, 0),
		vid("v2", at, 300, 0, 0),
	}}
	s := newSvc(t, f, Config{})

	in := domain.BucketsInput{GroupBy: []string{"weekday"}, Metric: "views", Op: "percentile", Percentile: 50}
	out, err := s.Buckets(context.Background(), in)
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	if len(out) != 1 || out[0].Value != 200 {
		t.Fatalf("out = %+v, want one bucket with value 200", out)
	}

	in.Op = "sum"
	out, err = s.Buckets(context.Background(), in)
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	if out[0].Value != 400 {
		t.Fatalf("sum value = %v, want 400", out[0].Value)
	}

	in.Op = "median"
	if _, err := s.Buckets(context.Background(), in); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad op err = %v, want invalid argument", err)
	}
}

func TestGrowth_RangeBoundsSnapshotFetchTimes(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f := &fakeRepo{snaps: []schema.ChannelSnapshot{
		{ChannelID: "c1", FetchedAt: t0, Subscribers: schema.KnownCount(100)},
		{ChannelID: "c1", FetchedAt: t0.AddDate(0, 0, 7), Subscribers: schema.KnownCount(150)},
		{ChannelID: "c1", FetchedAt: t0.AddDate(0, 0, 14), Subscribers: schema.KnownCount(400)},
	}}
	s := newSvc(t, f, Config{})

	end := t0.AddDate(0, 0, 7)
	out, err := s.Growth(context.Background(), domain.GrowthInput{Range: filterkit.Range{End: &end}})
	if err != nil {
		t.Fatalf("growth: %v", err)
	}
	if len(out) != 1 || out[0].Samples != 2 {
		t.Fatalf("out = %+v, want one channel with 2 samples", out)
	}
	// the late snapshot must not widen the delta
	if out[0].SubscriberDelta == nil || *out[0].SubscriberDelta != 50 {
		t.Fatalf("delta = %v, want 50", out[0].SubscriberDelta)
	}
}

func TestCommenters_RangeBoundsPublishTimes(t *testing.T) {
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	stale := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	f := &fakeRepo{comments: []schema.CommentRow{
		{CommentID: "m1", VideoID: "v1", AuthorID: "a", PublishedAt: recent},
		{CommentID: "m2", VideoID: "v1", AuthorID: "a", PublishedAt: stale},
		{CommentID: "m3", VideoID: "v1", AuthorID: "b"}, // publish time unknown
	}}
	s := newSvc(t, f, Config{})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := s.Commenters(context.Background(), domain.CommentersInput{
		Range: filterkit.Range{Start: &start},
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("commenters: %v", err)
	}
	// stale comment is out of range; unknown publish time fails a bounded range
	if len(out) != 1 || out[0].AuthorID != "a" || out[0].Comments != 1 {
		t.Fatalf("out = %+v, want only a with 1 comment", out)
	}

	out, err = s.Commenters(context.Background(), domain.CommentersInput{Limit: 10})
	if err != nil {
		t.Fatalf("commenters: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("unbounded out = %+v, want both authors", out)
	}
}

func TestSentiment_PerVideoFilter(t *testing.T) {
	f := &fakeRepo{comments: []schema.CommentRow{
		{CommentID: "m1", VideoID: "v1", AuthorID: "a", Sentiment: schema.KnownStat(0.5)},
		{CommentID: "m2", VideoID: "v2", AuthorID: "b", Sentiment: schema.KnownStat(-0.5)},
	}}
	s := newSvc(t, f, Config{})

	out, err := s.Sentiment(context.Background(), domain.SentimentInput{VideoID: "v2"})
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	if len(out) != 1 || out[0].VideoID != "v2" || out[0].Mean != -0.5 {
		t.Fatalf("out = %+v", out)
	}
}
