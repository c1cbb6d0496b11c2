package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
)

// SetVariant classifies how a set was performed.
type SetVariant string

const (
	VariantNormal  SetVariant = "normal"
	VariantWarmup  SetVariant = "warmup"
	VariantDrop    SetVariant = "drop"
	VariantFailure SetVariant = "failure"
	VariantOther   SetVariant = "other"
)

// ParseSetVariant maps a stored variant string to a SetVariant.
// Unknown values become VariantOther; an empty value is a normal set.
func ParseSetVariant(s string) SetVariant {
	switch v := SetVariant(strings.ToLower(strings.Trim(s, KeySpace))); v {
	case "":
		return VariantNormal
	case VariantNormal, VariantWarmup, VariantDrop, VariantFailure:
		return v
	default:
		return VariantOther
	}
}

// WorkoutSession is a row from the workout_sessions table with its nested exercises.
// More than one session may exist for the same user and date.
type WorkoutSession struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Date      calendar.Day    `json:"date"`
	Label     *string         `json:"label,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Exercises []ExerciseEntry `json:"exercises"`
}

// LabelText returns the session label, or "" when none was entered.
func (s WorkoutSession) LabelText() string {
	if s.Label == nil {
		return ""
	}
	return *s.Label
}

// KeySpace is the whitespace trimmed from stored exercise names and set
// variants before comparison. The Postgres store trims the same set with btrim.
const KeySpace = " \t\n\r\v\f"

// ExerciseKey normalizes an exercise name for exact, case-insensitive comparison.
func ExerciseKey(name string) string {
	return strings.ToLower(strings.Trim(name, KeySpace))
}

// ExerciseEntry is a row from the exercise_entries table.
type ExerciseEntry struct {
	ID        uuid.UUID  `json:"id"`
	SessionID uuid.UUID  `json:"session_id"`
	Name      string     `json:"name"`
	Position  int        `json:"position"`
	Sets      []SetEntry `json:"sets"`
}

// SetEntry is a row from the set_entries table.
type SetEntry struct {
	ID              uuid.UUID  `json:"id"`
	ExerciseEntryID uuid.UUID  `json:"exercise_entry_id"`
	Position        int        `json:"position"`
	Weight          float64    `json:"weight"`
	Reps            int        `json:"reps"`
	Variant         SetVariant `json:"variant"`
}

// IsWorking reports whether the set counts as genuine effort.
// Warmup sets never count toward targets or personal records.
func (s SetEntry) IsWorking() bool {
	return s.Variant != VariantWarmup
}

// NutritionEntry is a row from the nutrition_entries table.
type NutritionEntry struct {
	ID       uuid.UUID    `json:"id"`
	UserID   uuid.UUID    `json:"user_id"`
	Date     calendar.Day `json:"date"`
	Name     string       `json:"name"`
	Consumed bool         `json:"consumed"`
	Calories float64      `json:"calories"`
	Protein  float64      `json:"protein"`
	Carbs    float64      `json:"carbs"`
	Fat      float64      `json:"fat"`
}
