package handlers

import "net/http"

type styleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Styles lists the available artistic styles keyed by style id.
//
// @Summary List available styles
// @Tags styles
// @Produce json
// @Success 200 {object} map[string]any
// @Router /styles [get]
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	all := a.Catalog.All()
	out := make(map[string]styleResponse, len(all))
	for _, s := range all {
		out[s.Name] = styleResponse{Name: s.Title, Description: s.Description}
	}
	a.json(w, http.StatusOK, map[string]any{
		"styles": out,
		"count":  len(out),
	})
}
