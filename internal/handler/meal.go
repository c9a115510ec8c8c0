package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nhasan/nutriai/internal/apperror"
	"github.com/nhasan/nutriai/internal/model"
	"github.com/nhasan/nutriai/internal/service"
)

// MealHandler manages the meal ledger endpoints: logging, deleting, and
// the daily/weekly aggregations the dashboard renders.
type MealHandler struct {
	tracker *service.TrackerService
	logger  *slog.Logger
}

// NewMealHandler creates a MealHandler.
func NewMealHandler(tracker *service.TrackerService, logger *slog.Logger) *MealHandler {
	return &MealHandler{tracker: tracker, logger: logger}
}

// HandleList returns the full time-ordered ledger.
//
// HTTP: GET /api/meals
func (h *MealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Meals())
}

// HandleToday returns only today's entries.
//
// HTTP: GET /api/meals/today
func (h *MealHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.TodayMeals())
}

// HandleTotals returns the macro sums across today's meals.
//
// HTTP: GET /api/meals/totals
func (h *MealHandler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.TodayTotals())
}

// HandleHistory returns a calorie-per-day window ending today.
//
// HTTP: GET /api/meals/history?days=7
//
// days defaults to 7 (the dashboard's weekly chart) and is capped at 365 —
// the ledger scan is linear in days × meals, so an absurd window is a
// request problem, not a server one.
func (h *MealHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	days := 7
	if q := r.URL.Query().Get("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 365 {
			writeError(w, apperror.ValidationFailed("days", "days must be an integer between 1 and 365"))
			return
		}
		days = n
	}

	writeJSON(w, http.StatusOK, h.tracker.History(days))
}

// HandleCreate logs a new meal.
//
// HTTP: POST /api/meals
// BODY: {"name":"Oatmeal","category":"breakfast","time":"08:00",
//        "calories":"320","protein":"12,5","carbs":54,"fat":6}
//
// Numeric fields accept numbers or strings (comma decimals included);
// whatever doesn't parse becomes 0. Date is optional and defaults to
// today. The response is the stored entry, ID and all.
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft model.MealDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if draft.Name == "" {
		writeError(w, apperror.ValidationFailed("name", "meal name is required"))
		return
	}

	entry, err := h.tracker.AddMeal(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	if entry == nil {
		// Token was valid but no session is active (logged out elsewhere).
		writeError(w, apperror.InvalidCredentials())
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleDelete removes a ledger entry.
//
// HTTP: DELETE /api/meals/{id}
//
// Deleting an id that doesn't exist is a success (204) — the entry is
// gone either way.
func (h *MealHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "meal id is required"))
		return
	}

	if err := h.tracker.DeleteMeal(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
