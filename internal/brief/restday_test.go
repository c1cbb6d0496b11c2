package brief

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// 2026-03-09 is a Monday.
var (
	monday = calendar.Date(2026, 3, 9)
	friday = monday.AddDays(4)
)

func periodOf(d calendar.Day) calendar.Period {
	return calendar.Period{Today: d, WeekStart: d.WeekStart()}
}

// TestDecideRest covers each rest rule and their priority.
func TestDecideRest(t *testing.T) {
	user := uuid.New()
	on := func(days ...calendar.Day) []models.WorkoutSession {
		var out []models.WorkoutSession
		for i := len(days) - 1; i >= 0; i-- {
			out = append(out, sess(user, days[i], "Workout"))
		}
		return out
	}
	training := Rotation{Suggested: "Pull"}

	tests := []struct {
		name       string
		rot        Rotation
		sessions   []models.WorkoutSession
		goal       int
		wantRest   bool
		wantReason RestReason
		wantWeekly int
	}{
		{
			name:     "scheduled rest",
			rot:      Rotation{Suggested: "Rest"},
			wantRest: true, wantReason: ReasonScheduled,
		},
		{
			name:     "weekly goal met",
			rot:      training,
			sessions: on(monday, monday.AddDays(1), monday.AddDays(2), monday.AddDays(3)),
			goal:     4,
			wantRest: true, wantReason: ReasonWeeklyGoalMet, wantWeekly: 4,
		},
		{
			name:       "weekly goal not met",
			rot:        training,
			sessions:   on(monday, monday.AddDays(2)),
			goal:       4,
			wantWeekly: 2,
		},
		{
			name:     "three days in a row",
			rot:      training,
			sessions: on(monday.AddDays(1), monday.AddDays(2), monday.AddDays(3)),
			wantRest: true, wantReason: ReasonRecovery, wantWeekly: 3,
		},
		{
			name:       "trained today is never a rest trigger",
			rot:        training,
			sessions:   on(monday, monday.AddDays(1), monday.AddDays(2), monday.AddDays(3), friday),
			goal:       4,
			wantWeekly: 5,
		},
		{
			name:       "two sessions on one day both count",
			rot:        training,
			sessions:   append(on(monday, monday.AddDays(2)), sess(user, monday, "Cardio")),
			goal:       4,
			wantWeekly: 3,
		},
		{
			name: "doubled-up days meet the goal",
			rot:  training,
			sessions: append(on(monday, monday.AddDays(2)),
				sess(user, monday, "Cardio"), sess(user, monday.AddDays(2), "Core")),
			goal:     4,
			wantRest: true, wantReason: ReasonWeeklyGoalMet, wantWeekly: 4,
		},
		{
			name:       "last week does not count",
			rot:        training,
			sessions:   on(monday.AddDays(-3), monday.AddDays(-2), monday.AddDays(-1)),
			goal:       2,
			wantWeekly: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideRest(tt.rot, tt.sessions, periodOf(friday), models.WeeklyGoal{DaysPerWeek: tt.goal})
			if d.Rest != tt.wantRest || d.Reason != tt.wantReason {
				t.Errorf("rest = %v (%s), want %v (%s)", d.Rest, d.Reason, tt.wantRest, tt.wantReason)
			}
			if d.WeeklyCount != tt.wantWeekly {
				t.Errorf("weekly = %d, want %d", d.WeeklyCount, tt.wantWeekly)
			}
			if d.Rest && d.Message == "" {
				t.Error("rest decision has no message")
			}
		})
	}
}

// TestConsecutiveDaysStopsAtGap verifies the streak ends at the first missing day.
func TestConsecutiveDaysStopsAtGap(t *testing.T) {
	days := map[calendar.Day]bool{
		friday.AddDays(-1): true,
		friday.AddDays(-2): true,
		friday.AddDays(-4): true,
	}
	if got := consecutiveDays(days, friday); got != 2 {
		t.Errorf("streak = %d, want 2", got)
	}
}
