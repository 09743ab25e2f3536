package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/sqlinline"
)

// JobRepositorySQLite implements domain.JobRepository on top of the local
// SQLite database. Status updates are guarded by the expected current status
// so an out-of-order write surfaces as domain.ErrConflict instead of
// silently rewinding the lifecycle.
type JobRepositorySQLite struct {
	exec infra.SQLExecutor
}

// NewJobRepository creates a job repository backed by SQLite.
func NewJobRepository(exec infra.SQLExecutor) *JobRepositorySQLite {
	return &JobRepositorySQLite{exec: exec}
}

// EnsureSchema creates the transformations table and its indexes if missing.
func (r *JobRepositorySQLite) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{
		sqlinline.QCreateJobsTable,
		sqlinline.QCreateJobsSessionIndex,
		sqlinline.QCreateJobsStatusIndex,
	} {
		if _, err := r.exec.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Create inserts a new pending job record.
func (r *JobRepositorySQLite) Create(ctx context.Context, job *domain.Job) error {
	_, err := r.exec.Exec(ctx, sqlinline.QInsertJob,
		job.ID,
		job.SessionID,
		job.OriginalFilename,
		job.InputPath,
		job.StyleName,
		job.CreatedAt,
	)
	return err
}

// MarkProcessing moves a pending job to processing.
func (r *JobRepositorySQLite) MarkProcessing(ctx context.Context, jobID string) error {
	return r.guardedUpdate(ctx, jobID, domain.JobStatusProcessing, sqlinline.QMarkJobProcessing, jobID)
}

// MarkCompleted moves a processing job to completed and records the output.
func (r *JobRepositorySQLite) MarkCompleted(ctx context.Context, jobID, outputPath string, processingTime float64, completedAt time.Time) error {
	return r.guardedUpdate(ctx, jobID, domain.JobStatusCompleted, sqlinline.QMarkJobCompleted, outputPath, processingTime, completedAt, jobID)
}

// MarkFailed moves a processing job to failed and records the reason.
func (r *JobRepositorySQLite) MarkFailed(ctx context.Context, jobID, errMsg string, completedAt time.Time) error {
	return r.guardedUpdate(ctx, jobID, domain.JobStatusFailed, sqlinline.QMarkJobFailed, errMsg, completedAt, jobID)
}

// guardedUpdate runs a status transition query and inspects the affected row
// count. Zero rows means the record was missing or in the wrong state; the
// current record decides which, and the lifecycle table names the violation.
func (r *JobRepositorySQLite) guardedUpdate(ctx context.Context, jobID string, to domain.JobStatus, query string, args ...any) error {
	res, err := r.exec.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	current, err := r.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return fmt.Errorf("%w: job %s already %s", domain.ErrConflict, jobID, current.Status)
	}
	if !domain.CanTransition(current.Status, to) {
		return fmt.Errorf("%w: cannot move job %s from %s to %s", domain.ErrConflict, jobID, current.Status, to)
	}
	return fmt.Errorf("%w: job %s changed state concurrently", domain.ErrConflict, jobID)
}

// GetByID fetches a job by its identifier.
func (r *JobRepositorySQLite) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	row := r.exec.QueryRow(ctx, sqlinline.QSelectJobByID, jobID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ListRecent returns the newest completed jobs, at most limit of them.
func (r *JobRepositorySQLite) ListRecent(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := r.exec.Query(ctx, sqlinline.QSelectRecentCompleted, limit)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// ListBySession returns every job submitted under a session, newest first.
func (r *JobRepositorySQLite) ListBySession(ctx context.Context, sessionID string) ([]domain.Job, error) {
	rows, err := r.exec.Query(ctx, sqlinline.QSelectJobsBySession, sessionID)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*domain.Job, error) {
	var (
		job            domain.Job
		status         string
		outputPath     sql.NullString
		processingTime sql.NullFloat64
		errorMessage   sql.NullString
		completedAt    sql.NullTime
	)
	err := s.Scan(
		&job.ID,
		&job.SessionID,
		&job.OriginalFilename,
		&job.InputPath,
		&job.StyleName,
		&outputPath,
		&status,
		&processingTime,
		&errorMessage,
		&job.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	if outputPath.Valid {
		job.OutputPath = &outputPath.String
	}
	if processingTime.Valid {
		job.ProcessingTime = &processingTime.Float64
	}
	if errorMessage.Valid {
		job.ErrorMessage = &errorMessage.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	return &job, nil
}

func collectJobs(rows infra.Rows) ([]domain.Job, error) {
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

var _ domain.JobRepository = (*JobRepositorySQLite)(nil)
