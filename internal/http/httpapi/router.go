// Package httpapi wires handlers and middleware into the service router.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mobrahi/mimicryML/internal/http/handlers"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, log infra.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(log),
		chimw.Recoverer,
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)

	r.Get("/styles", app.Styles)
	r.Post("/transform", app.Transform)
	r.Get("/status/{job_id}", app.JobStatus)
	r.Get("/result/{job_id}", app.JobResult)
	r.Get("/gallery", app.Gallery)
	r.Get("/history/{session_id}", app.History)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
