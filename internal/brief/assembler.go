package brief

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// Input is everything the assembler needs. It is a plain value so the
// assembler stays a pure function of the loaded activity and the day.
type Input struct {
	UserID    uuid.UUID
	Period    calendar.Period
	Settings  models.TrainingSettings
	Sessions  []models.WorkoutSession // date <= today, most recent first
	PriorBest map[string]float64      // nil when history could not be loaded
	Consumed  models.NutritionTotals
	Goals     *models.NutritionTotals
}

// Analysis exposes the intermediate decisions behind a brief.
type Analysis struct {
	Rotation Rotation     `json:"rotation"`
	Rest     RestDecision `json:"rest"`
	Target   *TargetSet   `json:"target,omitempty"`
	PRs      []PR         `json:"prs,omitempty"`
}

// Assemble builds the deterministic brief. Having trained today always
// yields post_workout, whatever the rest-day policy says.
func Assemble(in Input) (*Brief, Analysis) {
	today := in.Period.Today
	_, todays := splitByDay(in.Sessions, today)

	rot := ResolveRotation(in.Settings.Rotation, in.Sessions, today)
	rest := DecideRest(rot, in.Sessions, in.Period, in.Settings.WeeklyGoal)
	an := Analysis{Rotation: rot, Rest: rest}

	b := &Brief{Nutrition: Nutrition{Goals: in.Goals, Consumed: in.Consumed}}

	switch {
	case len(todays) > 0:
		b.Mode = ModePostWorkout
		b.Focus = rot.TodayLabel + " Complete"
		if top, ok := heaviestSet(todays); ok {
			b.Achievement = top.Achievement()
		}
		if in.PriorBest != nil {
			an.PRs = DetectPRs(todays, in.PriorBest)
			b.PRs = an.PRs
		}
		b.Motivation = motivation(in.UserID, today, b.PRs)

	case rest.Rest:
		b.Mode = ModeRestDay
		b.Focus = "Rest Day"
		b.Target = rest.Message

	default:
		b.Mode = ModePreWorkout
		b.Focus = rot.Suggested
		b.Target = genericTarget
		if t, ok := SelectTarget(rot.Suggested, in.Sessions); ok {
			an.Target = &t
			b.Target = t.Text()
		}
	}
	return b, an
}

// motivation picks a line from a fixed pool. The index depends only on the
// user and the day, so regenerating the same day yields the same line.
func motivation(userID uuid.UUID, day calendar.Day, prs []PR) string {
	h := fnv.New32a()
	h.Write(userID[:])
	h.Write([]byte(day.String()))
	sum := h.Sum32()

	if len(prs) > 0 {
		return fmt.Sprintf(prMotivations[sum%uint32(len(prMotivations))], prs[0].Exercise)
	}
	return genericMotivations[sum%uint32(len(genericMotivations))]
}
