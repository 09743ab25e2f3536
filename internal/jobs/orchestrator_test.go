package jobs

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mobrahi/mimicryML/internal/adapter/repo"
	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/storage"
	"github.com/mobrahi/mimicryML/internal/styles"
)

// stubEngine lets tests control transformation outcome and timing.
type stubEngine struct {
	out    []byte
	err    error
	delay  time.Duration
	panics bool

	mu          sync.Mutex
	running     int
	maxParallel int
}

func (s *stubEngine) Stylize(ctx context.Context, src io.Reader, styleName string) ([]byte, error) {
	s.mu.Lock()
	s.running++
	if s.running > s.maxParallel {
		s.maxParallel = s.running
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running--
		s.mu.Unlock()
	}()

	if s.panics {
		panic("engine exploded")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if _, err := io.Copy(io.Discard, src); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

type testEnv struct {
	orch    *Orchestrator
	repo    *repo.JobRepositorySQLite
	outputs *storage.FileStore
}

func newTestEnv(t *testing.T, engine *stubEngine, concurrency int) *testEnv {
	t.Helper()

	// File-backed DSN: job goroutines update status on their own pool
	// connections, which must all see the same database.
	dsn := filepath.Join(t.TempDir(), "jobs.db") + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	jobRepo := repo.NewJobRepository(infra.NewSQLRunner(db, zerolog.Nop()))
	require.NoError(t, jobRepo.EnsureSchema(context.Background()))

	uploads, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	outputs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	styleStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	catalog := styles.NewCatalog(styleStore)

	orch := New(jobRepo, engine, uploads, outputs, catalog, concurrency, zerolog.Nop())
	return &testEnv{orch: orch, repo: jobRepo, outputs: outputs}
}

func (e *testEnv) waitForStatus(t *testing.T, jobID string, want domain.JobStatus) *domain.Job {
	t.Helper()
	var got *domain.Job
	require.Eventually(t, func() bool {
		job, err := e.repo.GetByID(context.Background(), jobID)
		if err != nil {
			return false
		}
		got = job
		return job.Status == want
	}, 3*time.Second, 10*time.Millisecond)
	return got
}

func submitReq(style string) SubmitRequest {
	return SubmitRequest{
		Content:   strings.NewReader("fake image bytes"),
		Filename:  "photo.jpg",
		StyleName: style,
		SessionID: "sess-1",
	}
}

func TestSubmitRunsJobToCompletion(t *testing.T) {
	engine := &stubEngine{out: []byte("stylized jpeg")}
	env := newTestEnv(t, engine, 2)

	job, err := env.orch.Submit(context.Background(), submitReq("vangogh"))
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusPending, job.Status)
	require.NotEmpty(t, job.ID)
	require.FileExists(t, job.InputPath)

	done := env.waitForStatus(t, job.ID, domain.JobStatusCompleted)
	require.NotNil(t, done.OutputPath)
	require.NotNil(t, done.ProcessingTime)
	require.NotNil(t, done.CompletedAt)

	data, err := os.ReadFile(*done.OutputPath)
	require.NoError(t, err)
	require.Equal(t, "stylized jpeg", string(data))
}

func TestSubmitRejectsUnknownStyle(t *testing.T) {
	env := newTestEnv(t, &stubEngine{}, 1)

	_, err := env.orch.Submit(context.Background(), submitReq("warhol"))
	require.ErrorIs(t, err, domain.ErrInvalidStyle)

	jobs, err := env.repo.ListBySession(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Empty(t, jobs)
}

func TestSubmitRejectsBadExtension(t *testing.T) {
	env := newTestEnv(t, &stubEngine{}, 1)

	req := submitReq("vangogh")
	req.Filename = "document.pdf"
	_, err := env.orch.Submit(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestEngineFailureMarksJobFailed(t *testing.T) {
	engine := &stubEngine{err: errors.New("invalid image: decode failed")}
	env := newTestEnv(t, engine, 1)

	job, err := env.orch.Submit(context.Background(), submitReq("monet"))
	require.NoError(t, err)

	failed := env.waitForStatus(t, job.ID, domain.JobStatusFailed)
	require.NotNil(t, failed.ErrorMessage)
	require.Contains(t, *failed.ErrorMessage, "decode failed")
	require.Nil(t, failed.OutputPath)
}

func TestPanicInEngineMarksJobFailed(t *testing.T) {
	engine := &stubEngine{panics: true}
	env := newTestEnv(t, engine, 1)

	job, err := env.orch.Submit(context.Background(), submitReq("picasso"))
	require.NoError(t, err)

	failed := env.waitForStatus(t, job.ID, domain.JobStatusFailed)
	require.NotNil(t, failed.ErrorMessage)
	require.Contains(t, *failed.ErrorMessage, "internal error")
}

func TestConcurrencyCap(t *testing.T) {
	engine := &stubEngine{out: []byte("x"), delay: 60 * time.Millisecond}
	env := newTestEnv(t, engine, 2)

	var ids []string
	for i := 0; i < 6; i++ {
		job, err := env.orch.Submit(context.Background(), submitReq("vangogh"))
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}
	for _, id := range ids {
		env.waitForStatus(t, id, domain.JobStatusCompleted)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	require.LessOrEqual(t, engine.maxParallel, 2)
}

func TestStatusDelegatesToRepo(t *testing.T) {
	env := newTestEnv(t, &stubEngine{out: []byte("x")}, 1)

	job, err := env.orch.Submit(context.Background(), submitReq("kandinsky"))
	require.NoError(t, err)

	got, err := env.orch.Status(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, got.ID)

	_, err = env.orch.Status(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDrainWaitsForInFlightJobs(t *testing.T) {
	engine := &stubEngine{out: []byte("x"), delay: 80 * time.Millisecond}
	env := newTestEnv(t, engine, 0)

	job, err := env.orch.Submit(context.Background(), submitReq("vangogh"))
	require.NoError(t, err)

	short, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	require.ErrorIs(t, env.orch.Drain(short), context.DeadlineExceeded)

	long, cancel2 := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel2()
	require.NoError(t, env.orch.Drain(long))

	got, err := env.repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusCompleted, got.Status)
}
