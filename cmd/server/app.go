package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/glossa-api/internal/api"
	"github.com/phrazzld/glossa-api/internal/api/middleware"
	"github.com/phrazzld/glossa-api/internal/config"
	"github.com/phrazzld/glossa-api/internal/generation"
	"github.com/phrazzld/glossa-api/internal/platform/furigana"
	"github.com/phrazzld/glossa-api/internal/platform/gemini"
	"github.com/phrazzld/glossa-api/internal/platform/postgres"
	"github.com/phrazzld/glossa-api/internal/service"
	"github.com/phrazzld/glossa-api/internal/store"
)

// application holds the configured server.
type application struct {
	config *config.Config
	logger *slog.Logger
	router http.Handler
}

// newApplication wires the Postgres stores, the Gemini client and the kagome
// annotator into the services and the router.
func newApplication(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	client, err := gemini.NewClient(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	annotator, err := furigana.NewAnnotator(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create furigana annotator: %w", err)
	}
	generator, err := generation.NewGenerator(client, client, annotator, cfg.LLM.VoiceName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact generator: %w", err)
	}

	router, err := buildRouter(cfg, postgres.NewTxManager(db, logger), postgres.NewStores(db, logger), generator, logger)
	if err != nil {
		return nil, err
	}

	return &application{config: cfg, logger: logger, router: router}, nil
}

// buildRouter creates the services over the given persistence and generator and
// mounts their handlers.
func buildRouter(
	cfg *config.Config,
	tx store.TxManager,
	stores *store.Stores,
	generator generation.ArtifactGenerator,
	logger *slog.Logger,
) (http.Handler, error) {
	streaks, err := service.NewStreakService(stores.Streaks, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak service: %w", err)
	}
	sharing, err := service.NewSharingService(tx, stores, service.SharingOptions{
		ReservedTitles: cfg.Sharing.ReservedTitles,
		DefaultLabel:   cfg.Sharing.DefaultLabel,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sharing service: %w", err)
	}
	imports, err := service.NewImportService(tx, stores, streaks, service.ImportOptions{
		BatchSize: cfg.Imports.BatchSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create import service: %w", err)
	}
	deletion, err := service.NewDeletionService(tx, stores, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deletion service: %w", err)
	}
	derivation, err := service.NewDerivationService(stores, generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create derivation service: %w", err)
	}
	verifier, err := middleware.NewJWTVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	return api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Verifier:           verifier,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Items:              api.NewItemHandler(sharing, deletion, logger),
		Imports:            api.NewImportHandler(imports, logger),
		Artifacts:          api.NewArtifactHandler(derivation, logger),
		Streaks:            api.NewStreakHandler(streaks, logger),
	}), nil
}
