// Package jobs runs style transformations in the background and tracks their
// lifecycle in the job store.
package jobs

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/storage"
	"github.com/mobrahi/mimicryML/internal/styles"
	"github.com/mobrahi/mimicryML/internal/styletransfer"
)

// allowedExtensions mirrors the upload contract: JPEG and PNG only.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// SubmitRequest carries one upload into the orchestrator.
type SubmitRequest struct {
	Content   io.Reader
	Filename  string
	StyleName string
	SessionID string
}

// Orchestrator accepts uploads, persists them and spawns one background
// goroutine per job. Admission is never blocked; the semaphore only caps how
// many transformations run simultaneously, queued jobs stay pending.
type Orchestrator struct {
	repo    domain.JobRepository
	engine  styletransfer.Engine
	uploads *storage.FileStore
	outputs *storage.FileStore
	catalog *styles.Catalog
	log     infra.Logger

	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// New builds an orchestrator. concurrency caps parallel transformations;
// zero means unbounded.
func New(
	repo domain.JobRepository,
	engine styletransfer.Engine,
	uploads, outputs *storage.FileStore,
	catalog *styles.Catalog,
	concurrency int,
	log infra.Logger,
) *Orchestrator {
	o := &Orchestrator{
		repo:    repo,
		engine:  engine,
		uploads: uploads,
		outputs: outputs,
		catalog: catalog,
		log:     log,
	}
	if concurrency > 0 {
		o.sem = semaphore.NewWeighted(int64(concurrency))
	}
	return o
}

// Submit validates the upload, persists it, records a pending job and kicks
// off its transformation. The returned job is always still pending; callers
// poll for progress.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (*domain.Job, error) {
	if _, ok := o.catalog.Get(req.StyleName); !ok {
		return nil, fmt.Errorf("%w: %q, available: %s",
			domain.ErrInvalidStyle, req.StyleName, strings.Join(o.catalog.Names(), ", "))
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: file type %q not allowed, use jpg, jpeg or png",
			domain.ErrInvalidImage, ext)
	}

	jobID := uuid.NewString()
	inputKey := jobID + ext
	inputPath, err := o.uploads.WriteStream(ctx, inputKey, req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	job := &domain.Job{
		ID:               jobID,
		SessionID:        req.SessionID,
		OriginalFilename: req.Filename,
		InputPath:        inputPath,
		StyleName:        req.StyleName,
		Status:           domain.JobStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if err := o.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	o.log.Info().
		Str("job_id", job.ID).
		Str("style", job.StyleName).
		Str("session_id", job.SessionID).
		Msg("job accepted")

	o.wg.Add(1)
	go o.process(job.ID, inputKey, job.StyleName)

	return job, nil
}

// Status returns the current record for a job.
func (o *Orchestrator) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	return o.repo.GetByID(ctx, jobID)
}

// Drain waits for all in-flight transformations to finish or for ctx to
// expire, whichever comes first.
func (o *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// process runs one transformation start to finish. It deliberately uses a
// background context: cancelling the upload request must not abort a job the
// client was already told about.
func (o *Orchestrator) process(jobID, inputKey, styleName string) {
	defer o.wg.Done()
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("job_id", jobID).Interface("panic", r).Msg("transformation panicked")
			o.failJob(ctx, jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if o.sem != nil {
		if err := o.sem.Acquire(ctx, 1); err != nil {
			o.failJob(ctx, jobID, "could not schedule transformation")
			return
		}
		defer o.sem.Release(1)
	}

	start := time.Now()
	if err := o.repo.MarkProcessing(ctx, jobID); err != nil {
		o.log.Error().Err(err).Str("job_id", jobID).Msg("claim job")
		return
	}

	src, err := o.uploads.Open(inputKey)
	if err != nil {
		o.failJob(ctx, jobID, "original upload is missing")
		return
	}
	stylized, err := o.engine.Stylize(ctx, src, styleName)
	src.Close()
	if err != nil {
		o.failJob(ctx, jobID, err.Error())
		return
	}

	outputPath, err := o.outputs.Write(ctx, jobID+".jpg", stylized)
	if err != nil {
		o.failJob(ctx, jobID, "could not persist stylized image")
		return
	}

	elapsed := roundSeconds(time.Since(start))
	if err := o.repo.MarkCompleted(ctx, jobID, outputPath, elapsed, time.Now().UTC()); err != nil {
		o.log.Error().Err(err).Str("job_id", jobID).Msg("finish job")
		return
	}
	o.log.Info().
		Str("job_id", jobID).
		Str("style", styleName).
		Float64("seconds", elapsed).
		Msg("job completed")
}

func (o *Orchestrator) failJob(ctx context.Context, jobID, reason string) {
	if err := o.repo.MarkFailed(ctx, jobID, reason, time.Now().UTC()); err != nil {
		o.log.Error().Err(err).Str("job_id", jobID).Msg("record failure")
		return
	}
	o.log.Warn().Str("job_id", jobID).Str("reason", reason).Msg("job failed")
}

// roundSeconds reports a duration in seconds with centisecond precision,
// which is what the status endpoint exposes.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
