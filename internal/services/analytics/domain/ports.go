package domain

import (
	"context"

	"tubelens/internal/core/aggregate"
	"tubelens/internal/core/temporal"
)

// ServicePort is consumed by handlers, the CLI, and other modules
type ServicePort interface {
	TopVideos(ctx context.Context, in TopVideosInput) ([]VideoOut, error)
	Buckets(ctx context.Context, in BucketsInput) ([]aggregate.Bucket, error)
	Summary(ctx context.Context, in SummaryInput) (aggregate.Summary, error)
	Heatmap(ctx context.Context, in HeatmapInput) ([]temporal.Cell, error)
	Windows(ctx context.Context, in WindowsInput) ([]temporal.Cell, error)
	Growth(ctx context.Context, in GrowthInput) ([]GrowthOut, error)
	Commenters(ctx context.Context, in CommentersInput) ([]aggregate.CommenterStat, error)
	Keywords(ctx context.Context, in KeywordsInput) ([]aggregate.KeywordStat, error)
	Sentiment(ctx context.Context, in SentimentInput) ([]aggregate.VideoSentiment, error)
}
