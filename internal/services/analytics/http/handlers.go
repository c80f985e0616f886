// Package http provides http transport for analytics
package http

import (
	stdhttp "net/http"

	"tubelens/internal/modkit/httpkit"
	"tubelens/internal/services/analytics/domain"
	svc "tubelens/internal/services/analytics/service"
)

// Register mounts analytics endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// ranked videos by metric
	httpkit.PostJSON[domain.TopVideosInput](r, "/top-videos", h.topVideos)

	// dimensional buckets
	httpkit.PostJSON[domain.BucketsInput](r, "/buckets", h.buckets)

	// dataset overview
	httpkit.PostJSON[domain.SummaryInput](r, "/summary", h.summary)

	// dense weekday x hour grid
	httpkit.PostJSON[domain.HeatmapInput](r, "/heatmap", h.heatmap)

	// ranked publish windows
	httpkit.PostJSON[domain.WindowsInput](r, "/windows", h.windows)

	// channel growth over snapshot history
	httpkit.PostJSON[domain.GrowthInput](r, "/growth", h.growth)

	// top comment authors
	httpkit.PostJSON[domain.CommentersInput](r, "/commenters", h.commenters)

	// title keyword performance
	httpkit.PostJSON[domain.KeywordsInput](r, "/keywords", h.keywords)

	// per video comment sentiment
	httpkit.PostJSON[domain.SentimentInput](r, "/sentiment", h.sentiment)
}

type handlers struct{ svc svc.Service }

func (h *handlers) topVideos(r *stdhttp.Request, in domain.TopVideosInput) (any, error) {
	return h.svc.TopVideos(r.Context(), in)
}

func (h *handlers) buckets(r *stdhttp.Request, in domain.BucketsInput) (any, error) {
	return h.svc.Buckets(r.Context(), in)
}

func (h *handlers) summary(r *stdhttp.Request, in domain.SummaryInput) (any, error) {
	return h.svc.Summary(r.Context(), in)
}

func (h *handlers) heatmap(r *stdhttp.Request, in domain.HeatmapInput) (any, error) {
	return h.svc.Heatmap(r.Context(), in)
}

func (h *handlers) windows(r *stdhttp.Request, in domain.WindowsInput) (any, error) {
	return h.svc.Windows(r.Context(), in)
}

func (h *handlers) growth(r *stdhttp.Request, in domain.GrowthInput) (any, error) {
	return h.svc.Growth(r.Context(), in)
}

func (h *handlers) commenters(r *stdhttp.Request, in domain.CommentersInput) (any, error) {
	return h.svc.Commenters(r.Context(), in)
}

func (h *handlers) keywords(r *stdhttp.Request, in domain.KeywordsInput) (any, error) {
	return h.svc.Keywords(r.Context(), in)
}

func (h *handlers) sentiment(r *stdhttp.Request, in domain.SentimentInput) (any, error) {
	return h.svc.Sentiment(r.Context(), in)
}
