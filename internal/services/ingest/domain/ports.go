package domain

import "context"

// ServicePort is consumed by handlers, the CLI, and other modules
type ServicePort interface {
	Channels(ctx context.Context, in BatchInput) (BatchResult, error)
	Videos(ctx context.Context, in BatchInput) (BatchResult, error)
	Comments(ctx context.Context, in BatchInput) (BatchResult, error)
}
