package brief

import (
	"fmt"

	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// RestReason explains why a day was classified as rest.
type RestReason string

const (
	ReasonScheduled     RestReason = "scheduled"
	ReasonWeeklyGoalMet RestReason = "weekly_goal_met"
	ReasonRecovery      RestReason = "recovery"
)

const (
	consecutiveLookback  = 7
	consecutiveThreshold = 3
)

// RestDecision is the outcome of the rest-day policy.
type RestDecision struct {
	Rest            bool       `json:"rest"`
	Reason          RestReason `json:"reason,omitempty"`
	Message         string     `json:"message,omitempty"`
	WeeklyCount     int        `json:"weekly_count"`
	WeeklyGoal      int        `json:"weekly_goal"`
	ConsecutiveDays int        `json:"consecutive_days"`
}

// DecideRest applies the rest-day rules in priority order: a scheduled rest
// day, then (only when nothing is logged today) the weekly goal and the
// consecutive-day limit. Training today is never itself a reason to rest.
func DecideRest(rot Rotation, sessions []models.WorkoutSession, period calendar.Period, goal models.WeeklyGoal) RestDecision {
	days := trainingDays(sessions)
	d := RestDecision{
		WeeklyCount:     weeklyCount(sessions, period),
		WeeklyGoal:      goal.DaysPerWeek,
		ConsecutiveDays: consecutiveDays(days, period.Today),
	}
	trainedToday := days[period.Today]

	switch {
	case rot.IsRest():
		d.Rest, d.Reason = true, ReasonScheduled
		d.Message = "Scheduled rest day in your rotation. Recover well."
	case trainedToday:
	case goal.DaysPerWeek > 0 && d.WeeklyCount >= goal.DaysPerWeek:
		d.Rest, d.Reason = true, ReasonWeeklyGoalMet
		d.Message = fmt.Sprintf("You've logged %d of %d sessions this week. Goal met, take today to recover.",
			d.WeeklyCount, goal.DaysPerWeek)
	case d.ConsecutiveDays >= consecutiveThreshold:
		d.Rest, d.Reason = true, ReasonRecovery
		d.Message = fmt.Sprintf("%d days in a row. Your body needs a recovery day.", d.ConsecutiveDays)
	}
	return d
}

func trainingDays(sessions []models.WorkoutSession) map[calendar.Day]bool {
	days := make(map[calendar.Day]bool, len(sessions))
	for _, s := range sessions {
		days[s.Date] = true
	}
	return days
}

// weeklyCount counts sessions dated in [weekStart, today]. Two sessions on
// one day count twice.
func weeklyCount(sessions []models.WorkoutSession, period calendar.Period) int {
	n := 0
	for _, s := range sessions {
		if !s.Date.Before(period.WeekStart) && !s.Date.After(period.Today) {
			n++
		}
	}
	return n
}

// consecutiveDays walks back from yesterday and stops at the first day
// without a session, or after the lookback limit.
func consecutiveDays(days map[calendar.Day]bool, today calendar.Day) int {
	n := 0
	for d := today.AddDays(-1); n < consecutiveLookback && days[d]; d = d.AddDays(-1) {
		n++
	}
	return n
}
