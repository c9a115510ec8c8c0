package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nhasan/nutriai/internal/auth"
	"github.com/nhasan/nutriai/internal/model"
	"github.com/nhasan/nutriai/internal/store"
)

// fixedDay pins "today" for every tracker test: Monday 2026-08-31, mid
// afternoon so no test straddles midnight.
var fixedDay = time.Date(2026, 8, 31, 15, 0, 0, 0, time.Local)

// newTestTracker builds a TrackerService (pinned clock) plus an
// AuthService sharing the same store, with one registered, logged-in user.
func newTestTracker(t *testing.T) (*TrackerService, *AuthService) {
	t.Helper()
	st := store.New(store.NewMemorySlot())
	authSvc := NewAuthService(st, auth.NewPasswordServiceForTest(4), testLogger())
	tracker := NewTrackerService(st, testLogger()).WithClock(func() time.Time { return fixedDay })

	ctx := context.Background()
	if _, err := authSvc.Register(ctx, "Ada", "ada@x.com", "pw", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := authSvc.Login(ctx, "ada@x.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return tracker, authSvc
}

// draftFromJSON decodes a MealDraft the way the HTTP layer does, so the
// Amount coercion is part of what's under test.
func draftFromJSON(t *testing.T, body string) model.MealDraft {
	t.Helper()
	var draft model.MealDraft
	if err := json.Unmarshal([]byte(body), &draft); err != nil {
		t.Fatalf("decoding draft: %v", err)
	}
	return draft
}

func addMeal(t *testing.T, tracker *TrackerService, body string) *model.MealEntry {
	t.Helper()
	entry, err := tracker.AddMeal(context.Background(), draftFromJSON(t, body))
	if err != nil {
		t.Fatalf("AddMeal: %v", err)
	}
	return entry
}

// =========================================================================
// ADD MEAL
// =========================================================================

func TestAddMeal_AssignsIDAndDefaultsDate(t *testing.T) {
	tracker, _ := newTestTracker(t)

	entry := addMeal(t, tracker, `{"name":"Oatmeal","category":"breakfast","time":"08:00","calories":320}`)

	if entry == nil {
		t.Fatal("AddMeal() returned nil for an authenticated user")
	}
	if entry.ID == "" {
		t.Error("AddMeal() entry has empty ID")
	}
	if entry.Date != "2026-08-31" {
		t.Errorf("Date = %q, want today %q", entry.Date, "2026-08-31")
	}
}

func TestAddMeal_CoercesNumericFields(t *testing.T) {
	tracker, _ := newTestTracker(t)

	entry := addMeal(t, tracker, `{"name":"Yoghurt","time":"10:00","calories":"1,5","protein":"abc"}`)

	if float64(entry.Calories) != 1.5 {
		t.Errorf("Calories = %v, want 1.5 (comma decimal)", float64(entry.Calories))
	}
	if float64(entry.Protein) != 0 {
		t.Errorf("Protein = %v, want 0 (unparsable)", float64(entry.Protein))
	}
}

func TestAddMeal_KeepsLedgerTimeOrdered(t *testing.T) {
	tracker, _ := newTestTracker(t)

	addMeal(t, tracker, `{"name":"Lunch prep","time":"08:00"}`)
	addMeal(t, tracker, `{"name":"Lunch","time":"12:30"}`)
	addMeal(t, tracker, `{"name":"Early snack","time":"07:15"}`)

	meals := tracker.Meals()
	want := []string{"07:15", "08:00", "12:30"}
	if len(meals) != len(want) {
		t.Fatalf("ledger has %d entries, want %d", len(meals), len(want))
	}
	for i, w := range want {
		if meals[i].Time != w {
			t.Errorf("meals[%d].Time = %q, want %q", i, meals[i].Time, w)
		}
	}
}

func TestAddMeal_UnauthenticatedIsNoop(t *testing.T) {
	tracker, authSvc := newTestTracker(t)
	ctx := context.Background()

	if err := authSvc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	entry, err := tracker.AddMeal(ctx, draftFromJSON(t, `{"name":"Ghost meal","time":"09:00"}`))
	if err != nil {
		t.Fatalf("AddMeal() unauthenticated error = %v, want silent no-op", err)
	}
	if entry != nil {
		t.Errorf("AddMeal() unauthenticated returned %+v, want nil", entry)
	}
}

// =========================================================================
// DELETE MEAL
// =========================================================================

func TestDeleteMeal_RemovesEntry(t *testing.T) {
	tracker, _ := newTestTracker(t)
	entry := addMeal(t, tracker, `{"name":"Oatmeal","time":"08:00"}`)

	if err := tracker.DeleteMeal(context.Background(), entry.ID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if got := len(tracker.Meals()); got != 0 {
		t.Errorf("ledger has %d entries after delete, want 0", got)
	}
}

func TestDeleteMeal_MissingIDIsNoop(t *testing.T) {
	tracker, _ := newTestTracker(t)
	addMeal(t, tracker, `{"name":"Oatmeal","time":"08:00"}`)

	if err := tracker.DeleteMeal(context.Background(), "no-such-id"); err != nil {
		t.Fatalf("DeleteMeal(missing) error = %v, want nil", err)
	}
	if got := len(tracker.Meals()); got != 1 {
		t.Errorf("ledger has %d entries, want 1 (unchanged)", got)
	}
}

// =========================================================================
// TODAY'S AGGREGATIONS
// =========================================================================

func TestTodayTotals_ExcludesOtherDays(t *testing.T) {
	tracker, _ := newTestTracker(t)

	addMeal(t, tracker, `{"name":"Today's lunch","time":"12:00","calories":300,"protein":20}`)
	addMeal(t, tracker, `{"name":"Yesterday's dinner","time":"19:00","date":"2026-08-30","calories":500}`)

	totals := tracker.TodayTotals()
	if totals.Calories != 300 {
		t.Errorf("Calories = %v, want 300 (yesterday excluded)", totals.Calories)
	}
	if totals.Protein != 20 {
		t.Errorf("Protein = %v, want 20", totals.Protein)
	}

	today := tracker.TodayMeals()
	if len(today) != 1 || today[0].Name != "Today's lunch" {
		t.Errorf("TodayMeals() = %+v, want only today's entry", today)
	}
}

func TestTodayTotals_EmptyLedgerIsAllZeros(t *testing.T) {
	tracker, _ := newTestTracker(t)

	if totals := tracker.TodayTotals(); totals != (model.Totals{}) {
		t.Errorf("TodayTotals() = %+v, want zero mapping", totals)
	}
}

// =========================================================================
// HISTORY
// =========================================================================

func TestHistory_CoversWindowWithGaps(t *testing.T) {
	tracker, _ := newTestTracker(t)

	// Meals today and two days ago; nothing yesterday.
	addMeal(t, tracker, `{"name":"Today","time":"12:00","calories":400}`)
	addMeal(t, tracker, `{"name":"Two days ago","time":"12:00","date":"2026-08-29","calories":250}`)

	history := tracker.History(3)
	if len(history) != 3 {
		t.Fatalf("History(3) returned %d entries, want 3", len(history))
	}

	wantDates := []string{"2026-08-29", "2026-08-30", "2026-08-31"}
	wantCalories := []float64{250, 0, 400}
	for i := range history {
		if history[i].Date != wantDates[i] {
			t.Errorf("history[%d].Date = %q, want %q (oldest first)", i, history[i].Date, wantDates[i])
		}
		if history[i].Calories != wantCalories[i] {
			t.Errorf("history[%d].Calories = %v, want %v", i, history[i].Calories, wantCalories[i])
		}
	}
}

func TestHistory_DisplayDateLabel(t *testing.T) {
	tracker, _ := newTestTracker(t)

	history := tracker.History(1)
	if len(history) != 1 {
		t.Fatalf("History(1) returned %d entries", len(history))
	}
	// 2026-08-31 is a Monday.
	if history[0].DisplayDate != "Mon 31" {
		t.Errorf("DisplayDate = %q, want %q", history[0].DisplayDate, "Mon 31")
	}
}

// =========================================================================
// GOALS
// =========================================================================

func TestGoals_UpdateMergesPartialFields(t *testing.T) {
	tracker, _ := newTestTracker(t)
	calories := 1800.0

	if err := tracker.UpdateGoals(context.Background(), model.GoalPatch{Calories: &calories}); err != nil {
		t.Fatalf("UpdateGoals: %v", err)
	}

	goals := tracker.Goals()
	if goals.Calories != 1800 {
		t.Errorf("Calories = %v, want 1800", goals.Calories)
	}
	if goals.Protein != 150 {
		t.Errorf("Protein = %v, want untouched default 150", goals.Protein)
	}
}

func TestGoals_UnauthenticatedFallback(t *testing.T) {
	tracker, authSvc := newTestTracker(t)
	ctx := context.Background()
	calories := 1234.0

	if err := authSvc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if got := tracker.Goals(); got != model.DefaultGoals() {
		t.Errorf("Goals() unauthenticated = %+v, want defaults", got)
	}

	// Updates while logged out vanish without error...
	if err := tracker.UpdateGoals(ctx, model.GoalPatch{Calories: &calories}); err != nil {
		t.Fatalf("UpdateGoals() unauthenticated error = %v, want silent no-op", err)
	}

	// ...and the real profile is untouched when the user returns.
	if _, err := authSvc.Login(ctx, "ada@x.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := tracker.Goals(); got != model.DefaultGoals() {
		t.Errorf("Goals() after re-login = %+v, want untouched defaults", got)
	}
}
