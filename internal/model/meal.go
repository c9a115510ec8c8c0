package model

// Category classifies a meal by time of day.
type Category string

// The four meal categories. Values are lowercase on the wire.
const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnack     Category = "snack"
)

// MealEntry is one logged food record in a user's ledger.
//
// Entries are immutable once created — there is no edit-in-place, only full
// deletion. ID is an xid assigned at insertion, so IDs sort roughly by
// creation time.
//
// TIME IS A STRING, ON PURPOSE:
// Time holds a zero-padded "HH:MM" clock string and the ledger is ordered
// by plain string comparison on it. That is correct exactly because the
// format is fixed-width ("07:15" < "08:00" < "12:30"). Other formats are
// undefined by this ordering — a documented constraint, not something to
// silently generalise.
type MealEntry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Time     string   `json:"time"` // zero-padded HH:MM
	Date     string   `json:"date"` // YYYY-MM-DD
	Calories Amount   `json:"calories"`
	Protein  Amount   `json:"protein"`
	Carbs    Amount   `json:"carbs"`
	Fat      Amount   `json:"fat"`
}

// MealDraft is the caller-supplied shape for a new ledger entry.
//
// The Amount fields coerce whatever the client sent (numbers, comma-decimal
// strings, garbage) at decode time, so by the time a draft reaches the
// service its numeric values are already well-formed. Date may be empty, in
// which case the service fills in today's date.
type MealDraft struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Time     string   `json:"time"`
	Date     string   `json:"date"`
	Calories Amount   `json:"calories"`
	Protein  Amount   `json:"protein"`
	Carbs    Amount   `json:"carbs"`
	Fat      Amount   `json:"fat"`
}

// Totals is the sum of the four macro fields over some set of meals.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add accumulates one meal entry into the totals.
func (t *Totals) Add(m MealEntry) {
	t.Calories += float64(m.Calories)
	t.Protein += float64(m.Protein)
	t.Carbs += float64(m.Carbs)
	t.Fat += float64(m.Fat)
}

// DaySummary is one day in a calorie history window: the machine-readable
// date, a short human label (weekday + day of month, e.g. "Mon 4"), and the
// calories logged that day.
type DaySummary struct {
	Date        string  `json:"date"`
	DisplayDate string  `json:"displayDate"`
	Calories    float64 `json:"calories"`
}
