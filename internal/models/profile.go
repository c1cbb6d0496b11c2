package models

import (
	"strings"

	"github.com/google/uuid"
)

// Profile holds the onboarding fields needed before a brief can be generated.
type Profile struct {
	UserID   uuid.UUID `json:"user_id"`
	HeightCM *float64  `json:"height_cm,omitempty"`
	WeightKG *float64  `json:"weight_kg,omitempty"`
	Goal     *string   `json:"goal,omitempty"`
}

// Onboarded reports whether height, weight and goal are all present.
func (p *Profile) Onboarded() bool {
	if p == nil {
		return false
	}
	return p.HeightCM != nil && *p.HeightCM > 0 &&
		p.WeightKG != nil && *p.WeightKG > 0 &&
		p.Goal != nil && strings.TrimSpace(*p.Goal) != ""
}

// RotationSpec is the user-declared cyclic sequence of training-day labels.
type RotationSpec struct {
	Days []string `json:"days"`
}

// IsRestLabel reports whether a rotation label marks a scheduled rest day:
// "rest" in any case, optionally followed by "day".
func IsRestLabel(label string) bool {
	f := strings.Fields(strings.ToLower(label))
	switch len(f) {
	case 1:
		return f[0] == "rest"
	case 2:
		return f[0] == "rest" && f[1] == "day"
	}
	return false
}

// WeeklyGoal is the number of training days the user aims for per week.
type WeeklyGoal struct {
	DaysPerWeek int `json:"days_per_week"`
}

// TrainingSettings is a row from the training_settings table.
type TrainingSettings struct {
	Rotation   RotationSpec `json:"rotation"`
	WeeklyGoal WeeklyGoal   `json:"weekly_goal"`
}

// NutritionTotals is an aggregate of macros.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the sum of t and an entry's macros.
func (t NutritionTotals) Add(e NutritionEntry) NutritionTotals {
	return NutritionTotals{
		Calories: t.Calories + e.Calories,
		Protein:  t.Protein + e.Protein,
		Carbs:    t.Carbs + e.Carbs,
		Fat:      t.Fat + e.Fat,
	}
}
