package brief

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

const genericTarget = "Time to train"

// TargetSet is the historical set offered as a target to beat.
type TargetSet struct {
	Exercise string       `json:"exercise"`
	Weight   float64      `json:"weight"`
	Reps     int          `json:"reps"`
	Date     calendar.Day `json:"date"`
}

// Text renders the target for display.
func (t TargetSet) Text() string {
	return fmt.Sprintf("Beat %s %sx%d", t.Exercise, formatWeight(t.Weight), t.Reps)
}

// SelectTarget finds the heaviest working set in the window whose exercise
// trains the suggested label. When the label maps to no known group, or the
// group has no history, the heaviest compound lift is used instead. The scan
// runs most recent first and only a strictly heavier set replaces the
// current best, so the most recent set wins a tie.
func SelectTarget(label string, sessions []models.WorkoutSession) (TargetSet, bool) {
	if g, ok := groupForLabel(label); ok {
		if t, found := heaviestMatching(sessions, g.exercises); found {
			return t, true
		}
	}
	return heaviestMatching(sessions, compoundExercises)
}

func groupForLabel(label string) (targetGroup, bool) {
	l := strings.ToLower(CleanLabel(label))
	if l == "" {
		return targetGroup{}, false
	}
	for _, g := range targetGroups {
		if containsAny(l, g.labels) {
			return g, true
		}
	}
	return targetGroup{}, false
}

func heaviestMatching(sessions []models.WorkoutSession, keywords []string) (TargetSet, bool) {
	var best TargetSet
	found := false
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			if !containsAny(strings.ToLower(ex.Name), keywords) {
				continue
			}
			for _, set := range ex.Sets {
				if !set.IsWorking() {
					continue
				}
				if !found || set.Weight > best.Weight {
					best = TargetSet{Exercise: strings.TrimSpace(ex.Name), Weight: set.Weight, Reps: set.Reps, Date: s.Date}
					found = true
				}
			}
		}
	}
	return best, found
}

// formatWeight prints a weight without trailing zeros: 100, 102.5.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
