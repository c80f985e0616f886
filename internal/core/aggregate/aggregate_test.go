package aggregate

import (
	"reflect"
	"testing"
	"time"

	"tubelens/internal/core/schema"
	perr "tubelens/internal/platform/errors"
)

func enriched(id, category string, views int64, at time.Time) schema.EnrichedVideoRow {
	local := at.UTC()
	return schema.EnrichedVideoRow{
		VideoID:        id,
		Category:       category,
		PublishedAt:    at,
		Views:          schema.KnownCount(views),
		Likes:          schema.KnownCount(views / 10),
		Comments:       schema.KnownCount(views / 100),
		EngagementRate: schema.KnownStat(0.11),
		ViewsPerDay:    schema.KnownStat(float64(views)),
		PublishWeekday: local.Weekday(),
		PublishHour:    local.Hour(),
	}
}

func TestAggregate_ByCategory(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{
		enriched("v1", "Music", 100, at),
		enriched("v2", "Gaming", 300, at),
		enriched("v3", "Music", 200, at),
	}
	// one row with unknown views lands in UnknownCount, not in the math
	blind := enriched("v4", "Music", 0, at)
	blind.Views = schema.UnknownCount()
	rows = append(rows, blind)

	buckets, err := Aggregate(rows, []string{DimCategory}, schema.MetricViews, Op{Name: OpMean}, Options{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	// key tuple ascending: Gaming before Music
	if buckets[0].Key[0] != "Gaming" || buckets[1].Key[0] != "Music" {
		t.Fatalf("bucket order = [%v %v]", buckets[0].Key, buckets[1].Key)
	}

	music := buckets[1]
	if music.Count != 2 || music.UnknownCount != 1 {
		t.Fatalf("music counts = (%d, %d), want (2, 1)", music.Count, music.UnknownCount)
	}
	if music.Sum != 300 || music.Mean != 150 {
		t.Fatalf("music sum/mean = (%v, %v), want (300, 150)", music.Sum, music.Mean)
	}
	if music.Value != music.Mean {
		t.Fatalf("mean op value = %v, want %v", music.Value, music.Mean)
	}
}

func TestAggregate_OpSelectsValue(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := make([]schema.EnrichedVideoRow, 0, 10)
	for i := int64(1); i <= 10; i++ {
		rows = append(rows, enriched("v", "Music", i*10, at))
	}

	tests := []struct {
		name string
		op   Op
		want float64
	}{
		{name: "sum", op: Op{Name: OpSum}, want: 550},
		{name: "mean", op: Op{Name: OpMean}, want: 55},
		{name: "count", op: Op{Name: OpCount}, want: 10},
		{name: "p90", op: Op{Name: OpPercentile, Percentile: 90}, want: 91},
		{name: "p0 is min", op: Op{Name: OpPercentile, Percentile: 0}, want: 10},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			buckets, err := Aggregate(rows, []string{DimCategory}, schema.MetricViews, tc.op, Options{})
			if err != nil {
				t.Fatalf("aggregate: %v", err)
			}
			if len(buckets) != 1 || buckets[0].Value != tc.want {
				t.Fatalf("value = %v, want %v", buckets[0].Value, tc.want)
			}
		})
	}

	if _, err := Aggregate(rows, []string{DimCategory}, schema.MetricViews, Op{Name: "median"}, Options{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown op: err = %v, want invalid argument", err)
	}
	bad := Op{Name: OpPercentile, Percentile: 101}
	if _, err := Aggregate(rows, []string{DimCategory}, schema.MetricViews, bad, Options{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("out of range percentile: err = %v, want invalid argument", err)
	}
}

func TestAggregate_ChunkBoundariesNotObservable(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	// more rows than one chunk, spread over a few categories
	rows := make([]schema.EnrichedVideoRow, 0, 3*chunkSize)
	cats := []string{"Music", "Gaming", "Education"}
	for i := 0; i < 3*chunkSize; i++ {
		rows = append(rows, enriched("v", cats[i%3], int64(i%97), at))
	}

	whole, err := Aggregate(rows, []string{DimCategory}, schema.MetricViews, Op{Name: OpMean}, Options{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	// a shuffled-ish reordering must produce the same buckets
	reordered := make([]schema.EnrichedVideoRow, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		reordered = append(reordered, rows[i])
	}
	again, err := Aggregate(reordered, []string{DimCategory}, schema.MetricViews, Op{Name: OpMean}, Options{})
	if err != nil {
		t.Fatalf("aggregate reordered: %v", err)
	}
	if !reflect.DeepEqual(whole, again) {
		t.Fatalf("aggregation depends on input order:\n%+v\nvs\n%+v", whole, again)
	}
}

func TestAggregate_UnknownDimensionAndMetric(t *testing.T) {
	rows := []schema.EnrichedVideoRow{}
	if _, err := Aggregate(rows, []string{"studio"}, schema.MetricViews, Op{Name: OpMean}, Options{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown dimension: err = %v, want invalid argument", err)
	}
	if _, err := Aggregate(rows, []string{DimCategory}, "virality", Op{Name: OpMean}, Options{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown metric: err = %v, want invalid argument", err)
	}
}

func TestAggregate_MonthRespectsLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 2024-06-01T01:00Z is still May in New York
	at := time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{enriched("v1", "Music", 10, at)}

	utc, err := Aggregate(rows, []string{DimMonth}, schema.MetricViews, Op{Name: OpMean}, Options{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if utc[0].Key[0] != "2024-06" {
		t.Fatalf("utc month = %q, want 2024-06", utc[0].Key[0])
	}

	local, err := Aggregate(rows, []string{DimMonth}, schema.MetricViews, Op{Name: OpMean}, Options{Location: ny})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if local[0].Key[0] != "2024-05" {
		t.Fatalf("ny month = %q, want 2024-05", local[0].Key[0])
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	vals := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	p90, err := Percentile(vals, 90)
	if err != nil {
		t.Fatalf("percentile: %v", err)
	}
	if p90 != 91 {
		t.Fatalf("p90 = %v, want 91", p90)
	}

	p50, err := Percentile(vals, 50)
	if err != nil {
		t.Fatalf("percentile: %v", err)
	}
	if p50 != 55 {
		t.Fatalf("p50 = %v, want 55", p50)
	}

	p0, _ := Percentile(vals, 0)
	p100, _ := Percentile(vals, 100)
	if p0 != 10 || p100 != 100 {
		t.Fatalf("p0/p100 = (%v, %v), want (10, 100)", p0, p100)
	}

	if _, err := Percentile(nil, 50); err == nil {
		t.Fatal("empty sample must error")
	}
	if _, err := Percentile(vals, 101); err == nil {
		t.Fatal("p out of range must error")
	}
}

func TestTopN(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{
		enriched("v-b", "Music", 300, at),
		enriched("v-a", "Music", 300, at), // tie with v-b, wins on id
		enriched("v-c", "Music", 500, at),
		enriched("v-d", "Music", 100, at),
	}
	blind := enriched("v-e", "Music", 0, at)
	blind.Views = schema.UnknownCount()
	rows = append(rows, blind)

	top, err := TopN(rows, schema.MetricViews, 3)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}
	got := []string{top[0].VideoID, top[1].VideoID, top[2].VideoID}
	want := []string{"v-c", "v-a", "v-b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("top3 = %v, want %v", got, want)
	}

	// idempotent: ranking the winners again returns them unchanged
	again, err := TopN(top, schema.MetricViews, 3)
	if err != nil {
		t.Fatalf("topn again: %v", err)
	}
	if !reflect.DeepEqual(top, again) {
		t.Fatalf("TopN not idempotent:\n%+v\nvs\n%+v", top, again)
	}

	if empty, _ := TopN(rows, schema.MetricViews, 0); len(empty) != 0 {
		t.Fatalf("n=0 must return empty, got %d", len(empty))
	}
	if all, _ := TopN(rows, schema.MetricViews, 50); len(all) != 4 {
		t.Fatalf("oversized n returns the eligible set, got %d", len(all))
	}
}

func TestDurationBucket(t *testing.T) {
	tests := []struct {
		secs schema.Count
		want string
	}{
		{schema.KnownCount(0), "<1m"},
		{schema.KnownCount(59), "<1m"},
		{schema.KnownCount(60), "1-5m"},
		{schema.KnownCount(299), "1-5m"},
		{schema.KnownCount(300), "5-10m"},
		{schema.KnownCount(599), "5-10m"},
		{schema.KnownCount(600), "10-20m"},
		{schema.KnownCount(1199), "10-20m"},
		{schema.KnownCount(1200), ">20m"},
		{schema.UnknownCount(), "unknown"},
	}
	for _, tc := range tests {
		if got := DurationBucket(tc.secs); got != tc.want {
			t.Fatalf("DurationBucket(%+v) = %q, want %q", tc.secs, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{
		enriched("v1", "Music", 100, at),
		enriched("v2", "Music", 200, at),
		enriched("v3", "Music", 300, at),
	}
	blind := enriched("v4", "Music", 0, at)
	blind.Views = schema.UnknownCount()
	rows = append(rows, blind)

	s := Summarize(rows)
	if s.Videos != 4 {
		t.Fatalf("videos = %d, want 4", s.Videos)
	}
	if s.Views.Known != 3 || s.Views.Unknown != 1 {
		t.Fatalf("views known/unknown = (%d, %d), want (3, 1)", s.Views.Known, s.Views.Unknown)
	}
	if s.Views.Total != 600 || s.Views.Mean != 200 || s.Views.Median != 200 {
		t.Fatalf("views block = %+v", s.Views)
	}
}

func TestKeywordStats(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := []schema.EnrichedVideoRow{
		enriched("v1", "Music", 100, at),
		enriched("v2", "Music", 200, at),
		enriched("v3", "Music", 900, at),
	}
	rows[0].Title = "Guitar Tutorial for beginners"
	rows[1].Title = "Advanced guitar solo"
	rows[2].Title = "Piano basics"

	stats := KeywordStats(rows, []string{"guitar", "piano", "drums"})
	if len(stats) != 3 {
		t.Fatalf("stats = %d, want 3", len(stats))
	}
	if stats[0].Videos != 2 || stats[0].MeanViews != 150 {
		t.Fatalf("guitar = %+v", stats[0])
	}
	if stats[1].Videos != 1 || stats[1].MeanViews != 900 {
		t.Fatalf("piano = %+v", stats[1])
	}
	if stats[2].Videos != 0 {
		t.Fatalf("drums = %+v", stats[2])
	}
}

func TestTopCommenters(t *testing.T) {
	comments := []schema.CommentRow{
		{CommentID: "m1", VideoID: "v1", AuthorID: "alice", Likes: schema.KnownCount(5)},
		{CommentID: "m2", VideoID: "v1", AuthorID: "bob", Likes: schema.KnownCount(1)},
		{CommentID: "m3", VideoID: "v2", AuthorID: "alice", Likes: schema.UnknownCount()},
		{CommentID: "m4", VideoID: "v2", AuthorID: "carol"},
		{CommentID: "m5", VideoID: "v2", AuthorID: ""},
	}
	top := TopCommenters(comments, 2)
	if len(top) != 2 {
		t.Fatalf("top = %d, want 2", len(top))
	}
	if top[0].AuthorID != "alice" || top[0].Comments != 2 || top[0].TotalLikes != 5 {
		t.Fatalf("top[0] = %+v", top[0])
	}
	// bob and carol tie at 1; id order breaks it
	if top[1].AuthorID != "bob" {
		t.Fatalf("top[1] = %+v, want bob", top[1])
	}
	if got := TopCommenters(comments, 0); len(got) != 0 {
		t.Fatalf("limit 0 must return empty, got %d", len(got))
	}
}

func TestSentimentByVideo(t *testing.T) {
	comments := []schema.CommentRow{
		{CommentID: "m1", VideoID: "v1", Sentiment: schema.KnownStat(0.5)},
		{CommentID: "m2", VideoID: "v1", Sentiment: schema.KnownStat(-0.5)},
		{CommentID: "m3", VideoID: "v1"}, // unscored must not pull the mean toward 0
		{CommentID: "m4", VideoID: "v2"},
	}
	rows := SentimentByVideo(comments)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	v1 := rows[0]
	if v1.Scored != 2 || v1.Unscored != 1 {
		t.Fatalf("v1 counts = %+v", v1)
	}
	if v1.Mean != 0 || v1.Min != -0.5 || v1.Max != 0.5 {
		t.Fatalf("v1 stats = %+v", v1)
	}
	v2 := rows[1]
	if v2.Scored != 0 || v2.Unscored != 1 {
		t.Fatalf("v2 = %+v", v2)
	}
}
