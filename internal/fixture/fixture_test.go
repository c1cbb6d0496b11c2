package fixture

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

const sampleLog = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
"2. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
"3. Hyperextensions · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
`

// TestParseLog verifies sessions, labels, warmups and European decimals are parsed.
func TestParseLog(t *testing.T) {
	user := uuid.New()
	sessions, err := ParseLog(strings.NewReader(sampleLog), user)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	legs := sessions[0]
	if legs.LabelText() != "Legs" {
		t.Errorf("label = %q, want Legs", legs.LabelText())
	}
	if legs.Date != calendar.Date(2026, 2, 19) {
		t.Errorf("date = %s, want 2026-02-19", legs.Date)
	}
	if legs.UserID != user {
		t.Errorf("user = %s, want %s", legs.UserID, user)
	}
	if len(legs.Exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(legs.Exercises))
	}

	hack := legs.Exercises[0]
	if hack.Name != "Hack Squats" {
		t.Errorf("name = %q, want Hack Squats", hack.Name)
	}
	if len(hack.Sets) != 4 {
		t.Fatalf("hack sets = %d, want 4 (2 warmup + 2 working)", len(hack.Sets))
	}
	if hack.Sets[0].Variant != models.VariantWarmup || hack.Sets[0].Weight != 37.5 {
		t.Errorf("first set = %+v, want warmup 37.5", hack.Sets[0])
	}
	if hack.Sets[2].Variant != models.VariantNormal || hack.Sets[2].Weight != 115 || hack.Sets[2].Reps != 8 {
		t.Errorf("third set = %+v, want normal 115x8", hack.Sets[2])
	}

	if got := legs.Exercises[2].Sets[1].Weight; got != 35 {
		t.Errorf("bodyweight-plus weight = %v, want 35", got)
	}

	push := sessions[1]
	if got := push.Exercises[0].Sets[1].Weight; got != 102.5 {
		t.Errorf("bench weight = %v, want 102.5", got)
	}
}

// TestParseLogSetWithoutExercise verifies malformed input is reported with a line number.
func TestParseLogSetWithoutExercise(t *testing.T) {
	_, err := ParseLog(strings.NewReader("\"Push\";\"2026-02-17\"\n1;100;5;1\n"), uuid.New())
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line 2 error", err)
	}
}

func session(user uuid.UUID, day calendar.Day, label string, created time.Time) models.WorkoutSession {
	return models.WorkoutSession{UserID: user, Date: day, Label: &label, CreatedAt: created}
}

// TestRecentSessionsOrder verifies sessions come back newest first, limited,
// and never after the requested day.
func TestRecentSessionsOrder(t *testing.T) {
	s := New()
	user := uuid.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.AddSessions(
		session(user, calendar.Date(2026, 3, 1), "A", base),
		session(user, calendar.Date(2026, 3, 3), "B", base.Add(48*time.Hour)),
		session(user, calendar.Date(2026, 3, 3), "C", base.Add(50*time.Hour)),
		session(user, calendar.Date(2026, 3, 5), "D", base.Add(96*time.Hour)),
	)

	got, err := s.RecentSessions(context.Background(), user, calendar.Date(2026, 3, 4), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].LabelText() != "C" || got[1].LabelText() != "B" {
		t.Errorf("order = %s, %s; want C, B", got[0].LabelText(), got[1].LabelText())
	}
}

// TestBestWeightsExcludesWarmupsAndToday verifies the record history only
// considers working sets from earlier days.
func TestBestWeightsExcludesWarmupsAndToday(t *testing.T) {
	s := New()
	user := uuid.New()
	today := calendar.Date(2026, 3, 10)
	mk := func(day calendar.Day, sets ...models.SetEntry) models.WorkoutSession {
		return models.WorkoutSession{UserID: user, Date: day, Exercises: []models.ExerciseEntry{{Name: "Bench Press", Sets: sets}}}
	}
	s.AddSessions(
		mk(today.AddDays(-3), models.SetEntry{Weight: 100, Reps: 5}, models.SetEntry{Weight: 140, Reps: 1, Variant: models.VariantWarmup}),
		mk(today, models.SetEntry{Weight: 120, Reps: 5}),
	)

	best, err := s.BestWeights(context.Background(), user, today, []string{"bench press"})
	if err != nil {
		t.Fatal(err)
	}
	if best["bench press"] != 100 {
		t.Errorf("best = %v, want 100", best["bench press"])
	}
}

// TestFailOnAndSlowOn verifies injected failures and delays surface as errors.
func TestFailOnAndSlowOn(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.FailOn(MethodConsumedNutrition, boom)
	if _, err := s.ConsumedNutrition(context.Background(), uuid.New(), calendar.Date(2026, 1, 1)); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	s.FailOn(MethodConsumedNutrition, nil)

	s.SlowOn(MethodGetNutritionGoals, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := s.GetNutritionGoals(ctx, uuid.New()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
