package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nhasan/nutriai/internal/apperror"
	"github.com/nhasan/nutriai/internal/model"
	"github.com/nhasan/nutriai/internal/service"
)

// GoalHandler exposes the user's daily macro targets.
type GoalHandler struct {
	tracker *service.TrackerService
	logger  *slog.Logger
}

// NewGoalHandler creates a GoalHandler.
func NewGoalHandler(tracker *service.TrackerService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{tracker: tracker, logger: logger}
}

// HandleGet returns the current goal profile.
//
// HTTP: GET /api/goals
func (h *GoalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Goals())
}

// HandleUpdate merges the supplied fields into the goal profile.
//
// HTTP: PUT /api/goals
// BODY: {"calories": 1800, "protein": 120}   ← absent fields keep their value
func (h *GoalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.GoalPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.tracker.UpdateGoals(r.Context(), patch); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.tracker.Goals())
}
