package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultGalleryLimit = 20
	maxGalleryLimit     = 100
)

// Gallery lists recently completed transformations.
//
// @Summary Browse completed transformations
// @Tags gallery
// @Produce json
// @Param limit query int false "Maximum entries to return, 1-100" default(20)
// @Success 200 {object} map[string]any
// @Router /gallery [get]
func (a *App) Gallery(w http.ResponseWriter, r *http.Request) {
	limit := defaultGalleryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxGalleryLimit {
		limit = maxGalleryLimit
	}

	list, err := a.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		a.Log.Error().Err(err).Msg("list gallery")
		a.error(w, http.StatusInternalServerError, "Failed to load gallery")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"count":           len(list),
		"transformations": toJobResponses(list),
	})
}

// History lists every job a session has submitted, newest first.
//
// @Summary Session transformation history
// @Tags gallery
// @Produce json
// @Param session_id path string true "Session identifier"
// @Success 200 {object} map[string]any
// @Router /history/{session_id} [get]
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	list, err := a.Repo.ListBySession(r.Context(), sessionID)
	if err != nil {
		a.Log.Error().Err(err).Str("session_id", sessionID).Msg("list history")
		a.error(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"session_id":      sessionID,
		"count":           len(list),
		"transformations": toJobResponses(list),
	})
}
