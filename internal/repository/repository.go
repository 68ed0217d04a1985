// Package repository defines the durable storage interface for per-resource
// metric history.
package repository

import (
	"context"

	"netpulse/internal/domain"
)

// SeriesStore persists ordered metric samples per resource id.
//
// Implementations are best-effort collaborators: callers treat write
// failures as recoverable and degrade unreadable series to empty rather
// than failing a request.
type SeriesStore interface {
	// AppendSample durably appends one sample to the resource's series
	AppendSample(ctx context.Context, resourceID string, sample domain.Sample) error

	// LoadSeries returns the resource's series in append order, trimmed to
	// the most recent `limit` samples. Missing series yield an empty slice.
	LoadSeries(ctx context.Context, resourceID string, limit int) ([]domain.Sample, error)

	// LastValue returns the most recently appended value for the resource,
	// with ok=false when no sample exists
	LastValue(ctx context.Context, resourceID string) (float64, bool, error)

	// Close releases resources
	Close() error
}
