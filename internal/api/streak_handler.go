package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/glossa-api/internal/api/shared"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/service"
)

// ActivityRequest is the optional body of POST /api/streak/activity.
type ActivityRequest struct {
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

// StreakHandler records learning activity.
type StreakHandler struct {
	streaks service.StreakService
	logger  *slog.Logger
}

// NewStreakHandler creates a StreakHandler.
func NewStreakHandler(streaks service.StreakService, logger *slog.Logger) *StreakHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StreakHandler")
	}
	return &StreakHandler{
		streaks: streaks,
		logger:  logger.With(slog.String("component", "streak_handler")),
	}
}

// RecordActivity handles POST /api/streak/activity.
func (h *StreakHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req ActivityRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	update, err := h.streaks.RecordActivity(r.Context(), userID, req.Timezone)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, update)
}
