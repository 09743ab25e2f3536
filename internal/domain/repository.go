package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for transformation job records.
//
// Status updates are guarded: an update whose from-state no longer matches the
// stored row must fail with ErrConflict rather than overwrite, which makes the
// monotonic lifecycle impossible to violate at the storage layer. All
// operations are single-record; concurrent writes to distinct jobs must not
// interfere.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	MarkProcessing(ctx context.Context, jobID string) error
	MarkCompleted(ctx context.Context, jobID, outputPath string, processingTime float64, completedAt time.Time) error
	MarkFailed(ctx context.Context, jobID, errMsg string, completedAt time.Time) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	ListRecent(ctx context.Context, limit int) ([]Job, error)
	ListBySession(ctx context.Context, sessionID string) ([]Job, error)
}
