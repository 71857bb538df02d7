package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/glossa-api/internal/api/middleware"
	"github.com/rs/cors"
)

// RouterConfig holds the handlers and middleware dependencies of the router.
type RouterConfig struct {
	Logger             *slog.Logger
	Verifier           middleware.TokenVerifier
	CORSAllowedOrigins []string

	Items     *ItemHandler
	Imports   *ImportHandler
	Artifacts *ArtifactHandler
	Streaks   *StreakHandler
}

// NewRouter builds the HTTP router. Everything under /api requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	auth := middleware.NewAuthMiddleware(cfg.Verifier)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Post("/items/{itemID}/publish", cfg.Items.Publish)
		r.Get("/items/{itemID}/impact", cfg.Items.Impact)
		r.Delete("/items/{itemID}", cfg.Items.Delete)

		r.Post("/posts/import", cfg.Imports.ImportAll)
		r.Post("/posts/{postID}/import", cfg.Imports.ImportOne)

		r.Post("/artifacts", cfg.Artifacts.GetOrGenerate)
		r.Post("/streak/activity", cfg.Streaks.RecordActivity)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			cfg.Logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
