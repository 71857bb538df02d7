package api

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/service"
)

// ArtifactRequest is the body of POST /api/artifacts.
type ArtifactRequest struct {
	OwnerKind string `json:"owner_kind" validate:"required,oneof=content_item published_post"`
	// EntityID may be omitted for text that is not stored; the result is then not cached.
	EntityID string `json:"entity_id" validate:"omitempty,uuid"`
	Variant  string `json:"variant" validate:"required,oneof=breakdown_desktop breakdown_mobile phonetic audio"`
	Text     string `json:"text" validate:"required,max=5000"`
	Language string `json:"language" validate:"omitempty,max=35"`
}

// ArtifactResponse carries one artifact. Audio is base64 encoded.
type ArtifactResponse struct {
	Variant  string `json:"variant"`
	Text     string `json:"text,omitempty"`
	Audio    string `json:"audio,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

// ArtifactHandler serves derived artifacts.
type ArtifactHandler struct {
	derivation service.DerivationService
	logger     *slog.Logger
}

// NewArtifactHandler creates an ArtifactHandler.
func NewArtifactHandler(derivation service.DerivationService, logger *slog.Logger) *ArtifactHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ArtifactHandler")
	}
	return &ArtifactHandler{
		derivation: derivation,
		logger:     logger.With(slog.String("component", "artifact_handler")),
	}
}

// GetOrGenerate handles POST /api/artifacts.
func (h *ArtifactHandler) GetOrGenerate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req ArtifactRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	entityID := uuid.Nil
	if id, err := optionalUUID(req.EntityID); err != nil {
		HandleAPIError(w, r, err, "Invalid entity_id")
		return
	} else if id != nil {
		entityID = *id
	}

	art, err := h.derivation.GetOrGenerate(r.Context(), service.DerivationRequest{
		CallerID:   userID,
		OwnerKind:  service.OwnerKind(req.OwnerKind),
		EntityID:   entityID,
		Variant:    domain.ArtifactVariant(req.Variant),
		SourceText: req.Text,
		Language:   req.Language,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ArtifactResponse{
		Variant:  req.Variant,
		Text:     art.Text,
		MIMEType: art.MIMEType,
	}
	if len(art.Data) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(art.Data)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
