// Package service contains analytics workflows: load rows, run the pure
// engine, shape wire output
package service

import (
	"context"
	"time"

	"tubelens/internal/core/aggregate"
	"tubelens/internal/core/derive"
	"tubelens/internal/core/filterkit"
	"tubelens/internal/core/temporal"
	"tubelens/internal/modkit/repokit"
	perr "tubelens/internal/platform/errors"
	"tubelens/internal/platform/timeutil"
	"tubelens/internal/services/analytics/domain"
	"tubelens/internal/services/analytics/repo"

	"tubelens/internal/core/schema"
)

// Service defines the analytics service contract
type Service interface {
	domain.ServicePort
}

// Config holds the server side engine defaults
type Config struct {
	// Location is the default display timezone; nil means UTC
	Location *time.Location
	// MinSample is the default publish window sample floor; 0 means the
	// engine default
	MinSample int
}

// Svc implements the analytics service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cfg    Config

	now func() time.Time
}

// New constructs an analytics service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("analytics.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("analytics.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg, now: time.Now}
}

// resolve merges request engine options over the server defaults
func (s *Svc) resolve(e domain.EngineOptions) (derive.Options, error) {
	opt := derive.Options{
		AsOf:     s.now().UTC(),
		Location: timeutil.OrUTC(s.cfg.Location),
	}
	if e.AsOf != nil {
		opt.AsOf = e.AsOf.UTC()
	}
	if e.TZ != "" {
		loc, err := time.LoadLocation(e.TZ)
		if err != nil {
			return derive.Options{}, perr.InvalidArgf("unknown timezone %q", e.TZ)
		}
		opt.Location = loc
	}
	return opt, nil
}

// load reads videos, derives metrics, and applies the shared filter layer.
// Every analytics entry point goes through here so filters behave uniformly
func (s *Svc) load(ctx context.Context, f domain.Filter, e domain.EngineOptions) ([]schema.EnrichedVideoRow, *time.Location, error) {
	opt, err := s.resolve(e)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.Repo.ListVideos(ctx, f.Range.Start, f.Range.End)
	if err != nil {
		return nil, nil, err
	}
	enriched := derive.Videos(rows, opt)
	filtered, err := filterkit.Apply(enriched, f.Range, f.Threshold)
	if err != nil {
		return nil, nil, err
	}
	return filtered, opt.Location, nil
}

// TopVideos ranks videos by one metric
func (s *Svc) TopVideos(ctx context.Context, in domain.TopVideosInput) ([]domain.VideoOut, error) {
	rows, _, err := s.load(ctx, in.Filter, in.Engine)
	if err != nil {
		return nil, err
	}
	top, err := aggregate.TopN(rows, in.Metric, in.N)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoOut, 0, len(top))
	for _, r := range top {
		out = append(out, domain.FromEnriched(r))
	}
	return out, nil
}

// Buckets groups videos along dimensions and folds one metric with the
// requested op
func (s *Svc) Buckets(ctx context.Context, in domain.BucketsInput) ([]aggregate.Bucket, error) {
	rows, loc, err := s.load(ctx, in.Filter, in.Engine)
	if err != nil {
		return nil, err
	}
	op := aggregate.Op{Name: in.Op, Percentile: in.Percentile}
	return aggregate.Aggregate(rows, in.GroupBy, in.Metric, op, aggregate.Options{Location: loc})
}

// Summary returns the dataset overview block
func (s *Svc) Summary(ctx context.Context, in domain.SummaryInput) (aggregate.Summary, error) {
	rows, _, err := s.load(ctx, in.Filter, in.Engine)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(rows), nil
}

// Heatmap returns the dense weekday x hour grid
func (s *Svc) Heatmap(ctx context.Context, in domain.HeatmapInput) ([]temporal.Cell, error) {
	rows, _, err := s.load(ctx, in.Filter, in.Engine)
	if err != nil {
		return nil, err
	}
	return temporal.Grid(rows, in.Metric)
}

// Windows ranks publish windows
func (s *Svc) Windows(ctx context.Context, in domain.WindowsInput) ([]temporal.Cell, error) {
	rows, _, err := s.load(ctx, in.Filter, in.Engine)
	if err != nil {
		return nil, err
	}
	minSample := in.MinSample
	if minSample == 0 {
		minSample = s.cfg.MinSample
	}
	return temporal.OptimalWindows(rows, in.Metric, in.TopK, temporal.Options{MinSample: minSample})
}

// Growth reports per channel growth over snapshot history inside the range
func (s *Svc) Growth(ctx context.Context, in domain.GrowthInput) ([]domain.GrowthOut, error) {
	snaps, err := s.Repo.ListSnapshots(ctx, in.ChannelID)
	if err != nil {
		return nil, err
	}
	rows := derive.ChannelGrowth(snapshotsInRange(snaps, in.Range))
	out := make([]domain.GrowthOut, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.FromGrowth(r))
	}
	return out, nil
}

// Commenters ranks comment authors by volume inside the range
func (s *Svc) Commenters(ctx context.Context, in domain.CommentersInput) ([]aggregate.CommenterStat, error) {
	comments, err := s.Repo.ListComments(ctx, "")
	if err != nil {
		return nil, err
	}
	return aggregate.TopCommenters(commentsInRange(comments, in.Range), in.Limit), nil
}

// Keywords reports title keyword performance
func (s *Svc) Keywords(ctx context.Context, in domain.KeywordsInput) ([]aggregate.KeywordStat, error) {
	rows, _, err := s.load(ctx, in.Filter, in.Engine)
	if err != nil {
		return nil, err
	}
	return aggregate.KeywordStats(rows, in.Keywords), nil
}

// Sentiment aggregates pre-computed comment sentiment per video inside the
// range
func (s *Svc) Sentiment(ctx context.Context, in domain.SentimentInput) ([]aggregate.VideoSentiment, error) {
	comments, err := s.Repo.ListComments(ctx, in.VideoID)
	if err != nil {
		return nil, err
	}
	return aggregate.SentimentByVideo(commentsInRange(comments, in.Range)), nil
}

// snapshotsInRange keeps snapshots whose fetch time falls inside r
func snapshotsInRange(snaps []schema.ChannelSnapshot, r filterkit.Range) []schema.ChannelSnapshot {
	if !r.Bounded() {
		return snaps
	}
	out := make([]schema.ChannelSnapshot, 0, len(snaps))
	for _, s := range snaps {
		if r.Contains(s.FetchedAt) {
			out = append(out, s)
		}
	}
	return out
}

// commentsInRange keeps comments whose publish time falls inside r. Comments
// without a publish time only pass an unbounded range
func commentsInRange(comments []schema.CommentRow, r filterkit.Range) []schema.CommentRow {
	if !r.Bounded() {
		return comments
	}
	out := make([]schema.CommentRow, 0, len(comments))
	for _, c := range comments {
		if r.ContainsOrUnknown(c.PublishedAt) {
			out = append(out, c)
		}
	}
	return out
}
