package model

// GoalProfile holds a user's daily macro and calorie targets.
// One profile exists per user, created with defaults at registration.
type GoalProfile struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DefaultGoals returns the targets a freshly registered user starts with.
func DefaultGoals() GoalProfile {
	return GoalProfile{
		Calories: 2000,
		Protein:  150,
		Carbs:    200,
		Fat:      65,
	}
}

// GoalPatch is a partial goal update. Pointer fields distinguish "not
// supplied, leave unchanged" from "explicitly set to zero" — the merge is a
// shallow field-by-field overlay.
//
// Values are deliberately not range-checked: the tracker accepts whatever
// the user sets, negative targets included.
type GoalPatch struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// ApplyTo overlays the patch's present fields onto a profile.
func (p GoalPatch) ApplyTo(g *GoalProfile) {
	if p.Calories != nil {
		g.Calories = *p.Calories
	}
	if p.Protein != nil {
		g.Protein = *p.Protein
	}
	if p.Carbs != nil {
		g.Carbs = *p.Carbs
	}
	if p.Fat != nil {
		g.Fat = *p.Fat
	}
}
