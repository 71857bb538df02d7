package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/service"
)

// ImportPostRequest is the optional body of POST /api/posts/{postID}/import.
type ImportPostRequest struct {
	CollectionID string `json:"collection_id" validate:"omitempty,uuid"`
	Timezone     string `json:"timezone" validate:"omitempty,timezone"`
}

// ImportLabelRequest is the body of POST /api/posts/import.
type ImportLabelRequest struct {
	Label        string `json:"label" validate:"required,max=200"`
	CollectionID string `json:"collection_id" validate:"omitempty,uuid"`
	Timezone     string `json:"timezone" validate:"omitempty,timezone"`
}

// partialImportResponse is the error body of a bulk import that failed after
// committing some batches.
type partialImportResponse struct {
	shared.ErrorResponse
	Partial *service.BulkImportResult `json:"partial"`
}

// ImportHandler serves imports of published posts.
type ImportHandler struct {
	imports service.ImportService
	logger  *slog.Logger
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(imports service.ImportService, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ImportHandler")
	}
	return &ImportHandler{
		imports: imports,
		logger:  logger.With(slog.String("component", "import_handler")),
	}
}

// ImportOne handles POST /api/posts/{postID}/import.
func (h *ImportHandler) ImportOne(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, postID, ok := handleUserIDAndPathUUID(w, r, "postID", log)
	if !ok {
		return
	}

	var req ImportPostRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	target, err := optionalUUID(req.CollectionID)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid collection_id")
		return
	}

	res, err := h.imports.ImportOne(r.Context(), userID, postID, target, req.Timezone)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, res)
}

// ImportAll handles POST /api/posts/import. A failure after some batches committed
// responds with the error and the partial result.
func (h *ImportHandler) ImportAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req ImportLabelRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	target, err := optionalUUID(req.CollectionID)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid collection_id")
		return
	}

	res, err := h.imports.ImportAll(r.Context(), userID, req.Label, target, req.Timezone)
	if err != nil {
		if res != nil && len(res.Imported) > 0 {
			log.Warn("bulk import stopped after partial success",
				slog.Int("imported", len(res.Imported)))
			HandleAPIError(w, r, err, "", shared.WithBody(func(e shared.ErrorResponse) any {
				return partialImportResponse{ErrorResponse: e, Partial: res}
			}))
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}
