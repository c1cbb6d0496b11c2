package brief

import (
	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// Test builders. Sessions are built with set("Bench Press", 100, 5) style
// helpers so each test reads like a training log.

type exSpec struct {
	name string
	sets []models.SetEntry
}

func ex(name string, sets ...models.SetEntry) exSpec {
	return exSpec{name: name, sets: sets}
}

func set(weight float64, reps int) models.SetEntry {
	return models.SetEntry{Weight: weight, Reps: reps, Variant: models.VariantNormal}
}

func warmup(weight float64, reps int) models.SetEntry {
	return models.SetEntry{Weight: weight, Reps: reps, Variant: models.VariantWarmup}
}

func sess(user uuid.UUID, day calendar.Day, label string, exercises ...exSpec) models.WorkoutSession {
	s := models.WorkoutSession{ID: uuid.New(), UserID: user, Date: day}
	if label != "" {
		s.Label = &label
	}
	for i, e := range exercises {
		s.Exercises = append(s.Exercises, models.ExerciseEntry{
			ID:       uuid.New(),
			Name:     e.name,
			Position: i + 1,
			Sets:     e.sets,
		})
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func onboarded(user uuid.UUID) models.Profile {
	return models.Profile{UserID: user, HeightCM: ptr(180.0), WeightKG: ptr(82.0), Goal: ptr("strength")}
}
