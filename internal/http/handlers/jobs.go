package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/mobrahi/mimicryML/internal/domain"
)

// JobStatus returns the current record for one job.
//
// @Summary Poll job status
// @Tags transform
// @Produce json
// @Param job_id path string true "Job identifier"
// @Success 200 {object} jobResponse
// @Failure 404 {object} map[string]string
// @Router /status/{job_id} [get]
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Repo.GetByID(r.Context(), jobID)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		a.Log.Error().Err(err).Str("job_id", jobID).Msg("load job")
		a.error(w, http.StatusInternalServerError, "Failed to load job")
		return
	}
	a.json(w, http.StatusOK, toJobResponse(job))
}

// JobResult streams the stylized image of a completed job.
//
// @Summary Download the stylized image
// @Tags transform
// @Produce image/jpeg
// @Param job_id path string true "Job identifier"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /result/{job_id} [get]
func (a *App) JobResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Repo.GetByID(r.Context(), jobID)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		a.Log.Error().Err(err).Str("job_id", jobID).Msg("load job")
		a.error(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	if job.Status != domain.JobStatusCompleted {
		a.error(w, http.StatusBadRequest,
			fmt.Sprintf("Job not completed. Current status: %s", job.Status))
		return
	}
	if job.OutputPath == nil {
		a.error(w, http.StatusNotFound, "Result file not found")
		return
	}
	if _, err := os.Stat(*job.OutputPath); err != nil {
		a.Log.Warn().Str("job_id", jobID).Str("path", *job.OutputPath).Msg("result file missing")
		a.error(w, http.StatusNotFound, "Result file not found")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="stylized_%s.jpg"`, jobID))
	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, *job.OutputPath)
}
