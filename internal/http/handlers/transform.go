package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/jobs"
)

// Transform accepts a photo upload and starts its stylization. The job is
// accepted as soon as the upload is on disk; clients poll the status
// endpoint for progress.
//
// @Summary Start a style transformation
// @Tags transform
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Photo to stylize (jpg, jpeg or png, max 10MB)"
// @Param style formData string false "Style name, see /styles (default vangogh)"
// @Param session_id formData string false "Session identifier, generated when omitted"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /transform [post]
func (a *App) Transform(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.Cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size: %dMB", a.Cfg.MaxUploadBytes>>20))
			return
		}
		a.error(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		a.error(w, http.StatusBadRequest, "Empty file")
		return
	}

	style := r.FormValue("style")
	if style == "" {
		style = "vangogh"
	}
	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	job, err := a.Orch.Submit(r.Context(), jobs.SubmitRequest{
		Content:   file,
		Filename:  header.Filename,
		StyleName: style,
		SessionID: sessionID,
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidStyle):
		a.error(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid style. Choose from: %s", strings.Join(a.Catalog.Names(), ", ")))
		return
	case errors.Is(err, domain.ErrInvalidImage):
		a.error(w, http.StatusBadRequest, "Invalid file type. Allowed: .jpg, .jpeg, .png")
		return
	default:
		a.Log.Error().Err(err).Msg("submit transformation")
		a.error(w, http.StatusInternalServerError, "Failed to start transformation")
		return
	}

	a.json(w, http.StatusOK, map[string]string{
		"job_id":     job.ID,
		"status":     string(job.Status),
		"session_id": job.SessionID,
		"message":    "Image uploaded successfully. Processing started.",
	})
}
