// Package domain holds DTOs for ingest http and service contracts
package domain

import "tubelens/internal/core/normalize"

// BatchInput carries one batch of raw records as deserialized JSON objects.
// The payload shape is whatever the upstream dump contains; normalization
// decides per record whether it is usable
type BatchInput struct {
	Records []map[string]any `json:"records" validate:"required,min=1,max=10000"`
}

// BatchResult reports what happened to a batch.
// Rejections carry enough to locate and fix the offending source records
type BatchResult struct {
	BatchID    string                `json:"batch_id" example:"0d9af39b-7a67-4a2b-9a70-4fc7f0fcff80"`
	Accepted   int                   `json:"accepted" example:"98"`
	Rejected   int                   `json:"rejected" example:"2"`
	Rejections []normalize.Rejection `json:"rejections,omitempty"`
}
