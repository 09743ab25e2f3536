// Package handlers contains the HTTP endpoints of the style transfer API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/jobs"
	"github.com/mobrahi/mimicryML/internal/styles"
)

// App bundles the dependencies every handler needs.
type App struct {
	Repo    domain.JobRepository
	Orch    *jobs.Orchestrator
	Catalog *styles.Catalog
	Cfg     *infra.Config
	Log     infra.Logger
}

func NewApp(repo domain.JobRepository, orch *jobs.Orchestrator, catalog *styles.Catalog, cfg *infra.Config, log infra.Logger) *App {
	return &App{Repo: repo, Orch: orch, Catalog: catalog, Cfg: cfg, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the {"detail": ...} error shape used across the API.
func (a *App) error(w http.ResponseWriter, code int, detail string) {
	a.json(w, code, map[string]string{"detail": detail})
}

// jobResponse is the wire shape of one job record.
type jobResponse struct {
	JobID            string     `json:"job_id"`
	Status           string     `json:"status"`
	StyleName        string     `json:"style_name"`
	OriginalFilename string     `json:"original_filename,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ProcessingTime   *float64   `json:"processing_time,omitempty"`
	OutputPath       *string    `json:"output_path,omitempty"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
}

func toJobResponse(job *domain.Job) jobResponse {
	return jobResponse{
		JobID:            job.ID,
		Status:           string(job.Status),
		StyleName:        job.StyleName,
		OriginalFilename: job.OriginalFilename,
		CreatedAt:        job.CreatedAt,
		CompletedAt:      job.CompletedAt,
		ProcessingTime:   job.ProcessingTime,
		OutputPath:       job.OutputPath,
		ErrorMessage:     job.ErrorMessage,
	}
}

func toJobResponses(list []domain.Job) []jobResponse {
	out := make([]jobResponse, len(list))
	for i := range list {
		out[i] = toJobResponse(&list[i])
	}
	return out
}

// Root serves the API banner with pointers to the interesting endpoints.
//
// @Summary Service banner
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]any
// @Router / [get]
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"message": "AI Style Transfer API",
		"status":  "running",
		"endpoints": map[string]string{
			"health":    "/health",
			"styles":    "/styles",
			"transform": "/transform",
			"status":    "/status/{job_id}",
			"result":    "/result/{job_id}",
			"gallery":   "/gallery",
			"history":   "/history/{session_id}",
		},
	})
}
