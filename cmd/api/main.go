package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mobrahi/mimicryML/internal/adapter/repo"
	"github.com/mobrahi/mimicryML/internal/http/handlers"
	"github.com/mobrahi/mimicryML/internal/http/httpapi"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/jobs"
	"github.com/mobrahi/mimicryML/internal/storage"
	"github.com/mobrahi/mimicryML/internal/styles"
	"github.com/mobrahi/mimicryML/internal/styletransfer"
)

// @title mimicryML | AI Style Transfer API
// @version 1.0.0
// @description Transform images with artistic styles using deep learning
// @BasePath /
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg)

	ctx := context.Background()
	db, err := infra.OpenSQLite(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	jobRepo := repo.NewJobRepository(infra.NewSQLRunner(db, logger))
	if err := jobRepo.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init upload store")
	}
	outputs, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init output store")
	}
	styleStore, err := storage.NewFileStore(cfg.StyleDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init style store")
	}

	catalog := styles.NewCatalog(styleStore)
	if err := catalog.EnsureReferenceImages(ctx, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare style references")
	}

	model, err := styletransfer.LoadModel(catalog, cfg.MaxImageDim, cfg.JPEGQuality, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load style model")
	}

	orch := jobs.New(jobRepo, model, uploads, outputs, catalog, cfg.TransformConcurrency, logger)

	app := handlers.NewApp(jobRepo, orch, catalog, cfg, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := orch.Drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("transformations still running at shutdown")
	}
	logger.Info().Msg("server stopped")
}
