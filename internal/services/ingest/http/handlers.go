// Package http provides http transport for ingest
package http

import (
	stdhttp "net/http"

	"tubelens/internal/modkit/httpkit"
	"tubelens/internal/services/ingest/domain"
	svc "tubelens/internal/services/ingest/service"
)

// Register mounts ingest endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// channel snapshot batches
	httpkit.PostJSON[domain.BatchInput](r, "/channels", h.channels)

	// video batches
	httpkit.PostJSON[domain.BatchInput](r, "/videos", h.videos)

	// comment batches
	httpkit.PostJSON[domain.BatchInput](r, "/comments", h.comments)
}

type handlers struct{ svc svc.Service }

func (h *handlers) channels(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.Channels(r.Context(), in)
}

func (h *handlers) videos(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.Videos(r.Context(), in)
}

func (h *handlers) comments(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.Comments(r.Context(), in)
}
