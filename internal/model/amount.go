package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a nutritional quantity (calories, grams of protein, etc.) that
// tolerates the messy inputs real users type.
//
// WHY A CUSTOM TYPE?
// Meal values arrive from three untrusted sources: manual form input, the
// saved state blob, and the AI analyzer's JSON. Any of them may send
// `12.5`, `"12.5"`, `"12,5"` (comma decimal separator — common on European
// keyboards) or plain garbage like `"abc"`. Rather than scattering parsing
// through every consumer, the coercion happens exactly once, here, at the
// JSON boundary:
//
//	number        → used as-is
//	numeric string → parsed (first comma normalised to a period)
//	anything else  → 0, never an error
//
// Degrading to zero instead of failing mirrors how the tracking flow should
// behave: a meal with an unreadable calorie value is still worth logging.
type Amount float64

// UnmarshalJSON implements the coercion rules above. It never returns an
// error — unparsable input becomes 0.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*a = Amount(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(ParseAmount(s))
		return nil
	}

	// null, objects, arrays, booleans — all degrade to zero
	*a = 0
	return nil
}

// ParseAmount converts a user-typed numeric string to a float64.
//
// The first comma is treated as a decimal separator ("1,5" → 1.5).
// Unparsable input returns 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
