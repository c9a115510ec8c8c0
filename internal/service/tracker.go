package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/rs/xid"

	"github.com/nhasan/nutriai/internal/model"
	"github.com/nhasan/nutriai/internal/store"
)

// TrackerService is the meal ledger and goal profile for whichever user the
// store's session points at.
//
// UNAUTHENTICATED BEHAVIOUR:
// Reads fall back to harmless defaults — Goals() hands out a fresh default
// profile, the ledger reads act on an empty ledger. Writes are silent
// no-ops. Nothing errors; the presentation layer simply has nothing to
// show until someone logs in.
//
// The clock is injectable so "today" can be pinned in tests; production
// code never touches the field.
type TrackerService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewTrackerService creates a TrackerService over the given store.
func NewTrackerService(st *store.Store, logger *slog.Logger) *TrackerService {
	return &TrackerService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the service's clock. Test hook.
func (s *TrackerService) WithClock(now func() time.Time) *TrackerService {
	s.now = now
	return s
}

// dateFormat is the ledger's calendar-day key, YYYY-MM-DD.
const dateFormat = "2006-01-02"

// Goals returns the authenticated user's goal profile. When no session is
// active it returns a fresh default profile — a read-only fallback that is
// never persisted.
func (s *TrackerService) Goals() model.GoalProfile {
	goals := model.DefaultGoals()
	s.store.View(func(st *store.State) {
		if data, ok := st.UserData[st.CurrentSession]; ok && st.CurrentSession != "" {
			goals = data.Goals
		}
	})
	return goals
}

// UpdateGoals shallow-merges the patch's present fields into the
// authenticated user's goals and persists. No-op when unauthenticated.
// Values are not range-validated — negative targets are stored as given.
func (s *TrackerService) UpdateGoals(ctx context.Context, patch model.GoalPatch) error {
	var changed bool
	s.store.Update(func(st *store.State) {
		data, ok := st.UserData[st.CurrentSession]
		if !ok || st.CurrentSession == "" {
			return
		}
		patch.ApplyTo(&data.Goals)
		changed = true
	})
	if !changed {
		return nil
	}
	return s.store.Save(ctx)
}

// AddMeal appends a new entry to the ledger and persists.
//
// No-op when unauthenticated (returns nil, nil). The entry gets a fresh
// xid; an empty date defaults to today. Numeric coercion already happened
// when the draft was decoded (model.Amount), so the values here are final.
//
// After the append the whole ledger is re-sorted by Time using string
// comparison — see the constraint documented on model.MealEntry.Time.
func (s *TrackerService) AddMeal(ctx context.Context, draft model.MealDraft) (*model.MealEntry, error) {
	entry := model.MealEntry{
		ID:       xid.New().String(),
		Name:     draft.Name,
		Category: draft.Category,
		Time:     draft.Time,
		Date:     draft.Date,
		Calories: draft.Calories,
		Protein:  draft.Protein,
		Carbs:    draft.Carbs,
		Fat:      draft.Fat,
	}
	if entry.Date == "" {
		entry.Date = s.TodayDateString()
	}

	var added bool
	s.store.Update(func(st *store.State) {
		data, ok := st.UserData[st.CurrentSession]
		if !ok || st.CurrentSession == "" {
			return
		}
		data.Meals = append(data.Meals, entry)
		sort.SliceStable(data.Meals, func(i, j int) bool {
			return data.Meals[i].Time < data.Meals[j].Time
		})
		added = true
	})
	if !added {
		return nil, nil
	}

	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug("meal added",
		slog.String("mealID", entry.ID),
		slog.String("date", entry.Date),
		slog.Float64("calories", float64(entry.Calories)),
	)

	return &entry, nil
}

// DeleteMeal removes the entry with the given id and persists. A missing
// id is a no-op, not an error; so is being unauthenticated.
func (s *TrackerService) DeleteMeal(ctx context.Context, id string) error {
	var authed bool
	s.store.Update(func(st *store.State) {
		data, ok := st.UserData[st.CurrentSession]
		if !ok || st.CurrentSession == "" {
			return
		}
		authed = true
		kept := data.Meals[:0]
		for _, m := range data.Meals {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		data.Meals = kept
	})
	if !authed {
		return nil
	}
	return s.store.Save(ctx)
}

// Meals returns the authenticated user's full ledger, time-ordered.
// Empty when unauthenticated.
func (s *TrackerService) Meals() []model.MealEntry {
	var meals []model.MealEntry
	s.store.View(func(st *store.State) {
		if data, ok := st.UserData[st.CurrentSession]; ok && st.CurrentSession != "" {
			meals = append([]model.MealEntry{}, data.Meals...)
		}
	})
	if meals == nil {
		meals = []model.MealEntry{}
	}
	return meals
}

// TodayDateString returns the current local date as YYYY-MM-DD.
func (s *TrackerService) TodayDateString() string {
	return s.now().Format(dateFormat)
}

// TodayMeals returns the ledger entries dated today.
func (s *TrackerService) TodayMeals() []model.MealEntry {
	today := s.TodayDateString()
	out := []model.MealEntry{}
	for _, m := range s.Meals() {
		if m.Date == today {
			out = append(out, m)
		}
	}
	return out
}

// TodayTotals sums the macro fields across today's meals. All zeros when
// nothing has been logged yet.
func (s *TrackerService) TodayTotals() model.Totals {
	var totals model.Totals
	for _, m := range s.TodayMeals() {
		totals.Add(m)
	}
	return totals
}

// History returns one summary per day for exactly `days` consecutive
// calendar days ending today, oldest first. Days with no entries report 0
// calories. DisplayDate is a short weekday + day-of-month label for chart
// axes — presentation flavouring computed here because it falls out of the
// same loop.
func (s *TrackerService) History(days int) []model.DaySummary {
	meals := s.Meals()
	today := s.now()

	history := make([]model.DaySummary, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		dateStr := d.Format(dateFormat)

		var calories float64
		for _, m := range meals {
			if m.Date == dateStr {
				calories += float64(m.Calories)
			}
		}

		history = append(history, model.DaySummary{
			Date:        dateStr,
			DisplayDate: d.Format("Mon 2"),
			Calories:    calories,
		})
	}

	return history
}
