package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/service"
)

// DeleteItemRequest is the optional body of DELETE /api/items/{itemID}.
type DeleteItemRequest struct {
	// Memberships lists collections the client shows the item in.
	Memberships []string `json:"memberships" validate:"omitempty,max=500,dive,uuid"`
}

// ItemHandler serves publishing and deletion of the caller's content items.
type ItemHandler struct {
	sharing  service.SharingService
	deletion service.DeletionService
	logger   *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(
	sharing service.SharingService,
	deletion service.DeletionService,
	logger *slog.Logger,
) *ItemHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ItemHandler")
	}
	return &ItemHandler{
		sharing:  sharing,
		deletion: deletion,
		logger:   logger.With(slog.String("component", "item_handler")),
	}
}

// Publish handles POST /api/items/{itemID}/publish.
func (h *ItemHandler) Publish(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "itemID", log)
	if !ok {
		return
	}

	post, err := h.sharing.Publish(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("content item published",
		slog.String("item_id", itemID.String()),
		slog.String("post_id", post.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, post)
}

// Impact handles GET /api/items/{itemID}/impact.
func (h *ItemHandler) Impact(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "itemID", log)
	if !ok {
		return
	}

	impact, err := h.deletion.CheckImpact(r.Context(), userID, itemID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, impact)
}

// Delete handles DELETE /api/items/{itemID}. It responds 204 on success.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "itemID", log)
	if !ok {
		return
	}

	var req DeleteItemRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	memberships := make([]uuid.UUID, 0, len(req.Memberships))
	for _, raw := range req.Memberships {
		// Already validated as UUIDs.
		memberships = append(memberships, uuid.MustParse(raw))
	}

	if err := h.deletion.DeleteWithCascade(r.Context(), userID, itemID, memberships); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
