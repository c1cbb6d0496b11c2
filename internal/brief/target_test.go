package brief

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// TestSelectTarget covers group matching, warmup exclusion, ties and the
// compound fallback.
func TestSelectTarget(t *testing.T) {
	user := uuid.New()
	today := calendar.Date(2026, 3, 12)
	recent, older := today.AddDays(-2), today.AddDays(-6)

	tests := []struct {
		name     string
		label    string
		sessions []models.WorkoutSession
		want     string
		wantDate calendar.Day
	}{
		{
			name:  "heaviest working set in the group",
			label: "Pull",
			sessions: []models.WorkoutSession{
				sess(user, recent, "Pull", ex("Barbell Row", warmup(100, 3), set(80, 8)), ex("Bench Press", set(120, 5))),
				sess(user, older, "Pull", ex("Barbell Row", set(85, 5))),
			},
			want: "Beat Barbell Row 85x5", wantDate: older,
		},
		{
			name:  "most recent set wins a tie",
			label: "Pull Day",
			sessions: []models.WorkoutSession{
				sess(user, recent, "Pull", ex("Barbell Row", set(80, 6))),
				sess(user, older, "Pull", ex("Barbell Row", set(80, 10))),
			},
			want: "Beat Barbell Row 80x6", wantDate: recent,
		},
		{
			name:  "unknown label uses heaviest compound",
			label: "Cardio",
			sessions: []models.WorkoutSession{
				sess(user, recent, "", ex("Bench Press", set(100, 5))),
				sess(user, older, "", ex("Back Squat", set(140, 3))),
			},
			want: "Beat Back Squat 140x3", wantDate: older,
		},
		{
			name:     "group without history falls back to compounds",
			label:    "Legs",
			sessions: []models.WorkoutSession{sess(user, recent, "Push", ex("Bench Press", set(102.5, 3)))},
			want:     "Beat Bench Press 102.5x3", wantDate: recent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectTarget(tt.label, tt.sessions)
			if !ok {
				t.Fatal("no target found")
			}
			if got.Text() != tt.want {
				t.Errorf("target = %q, want %q", got.Text(), tt.want)
			}
			if got.Date != tt.wantDate {
				t.Errorf("date = %s, want %s", got.Date, tt.wantDate)
			}
		})
	}
}

// TestSelectTargetNoHistory verifies no target is produced from warmups alone.
func TestSelectTargetNoHistory(t *testing.T) {
	user := uuid.New()
	sessions := []models.WorkoutSession{
		sess(user, calendar.Date(2026, 3, 10), "Push", ex("Bench Press", warmup(60, 10))),
	}
	if _, ok := SelectTarget("Push", sessions); ok {
		t.Error("expected no target")
	}
	if _, ok := SelectTarget("Push", nil); ok {
		t.Error("expected no target for empty history")
	}
}
