package model

// Estimate is the analyzer's structured guess at a meal's nutrition,
// parsed from the model's JSON reply.
//
// The analyzer is best-effort and untrusted: fields may be missing or typed
// loosely (the model occasionally returns numbers as strings). Amount
// handles per-field coercion during decoding; Normalize fills the
// structural gaps once, right after parsing, so consumers never have to
// nil-check. The user reviews and may edit these values before they become
// a MealEntry — nothing here is committed automatically.
type Estimate struct {
	MealName string         `json:"mealName"`
	Items    []EstimateItem `json:"items"`
	Totals   EstimateTotals `json:"totals"`
}

// EstimateItem is one recognised food item with its portion estimate.
type EstimateItem struct {
	Name     string `json:"name"`
	Calories Amount `json:"calories"`
	Protein  Amount `json:"protein"`
	Carbs    Amount `json:"carbs"`
	Fat      Amount `json:"fat"`
	Portion  string `json:"portion"` // e.g. "200g", "1 cup"
}

// EstimateTotals mirrors Totals but with coercing fields, since it comes
// straight off the model's wire format.
type EstimateTotals struct {
	Calories Amount `json:"calories"`
	Protein  Amount `json:"protein"`
	Carbs    Amount `json:"carbs"`
	Fat      Amount `json:"fat"`
}

// Normalize applies the boundary defaults: an absent items array becomes an
// empty slice (absent totals already decode to the zero mapping).
func (e *Estimate) Normalize() {
	if e.Items == nil {
		e.Items = []EstimateItem{}
	}
}
