package brief

import (
	"fmt"
	"strings"

	"github.com/nhanzalone1/netgains/internal/models"
)

// exerciseNames returns the distinct exercise keys logged in sessions, in order.
func exerciseNames(sessions []models.WorkoutSession) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			k := models.ExerciseKey(ex.Name)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			names = append(names, k)
		}
	}
	return names
}

// DetectPRs reports at most one record per exercise logged today. The best
// working set of each exercise (heaviest, then most reps, then first logged)
// is a record when no prior weight exists for that exercise or when it is
// strictly heavier than the prior maximum. prior is keyed by models.ExerciseKey.
func DetectPRs(todays []models.WorkoutSession, prior map[string]float64) []PR {
	type candidate struct {
		pr  PR
		set bool
	}
	best := make(map[string]*candidate)
	var order []string

	for _, s := range todays {
		for _, ex := range s.Exercises {
			k := models.ExerciseKey(ex.Name)
			if k == "" {
				continue
			}
			for _, set := range ex.Sets {
				if !set.IsWorking() {
					continue
				}
				c, ok := best[k]
				if !ok {
					c = &candidate{}
					best[k] = c
					order = append(order, k)
				}
				if !c.set || set.Weight > c.pr.Weight || (set.Weight == c.pr.Weight && set.Reps > c.pr.Reps) {
					name := c.pr.Exercise
					if !c.set {
						name = strings.TrimSpace(ex.Name)
					}
					c.pr = PR{Exercise: name, Weight: set.Weight, Reps: set.Reps}
					c.set = true
				}
			}
		}
	}

	var prs []PR
	for _, k := range order {
		c := best[k]
		if prev, ok := prior[k]; ok && c.pr.Weight <= prev {
			continue
		}
		prs = append(prs, c.pr)
	}
	return prs
}

// heaviestSet returns today's heaviest working set across all exercises.
func heaviestSet(todays []models.WorkoutSession) (PR, bool) {
	var best PR
	found := false
	for _, s := range todays {
		for _, ex := range s.Exercises {
			for _, set := range ex.Sets {
				if !set.IsWorking() {
					continue
				}
				if !found || set.Weight > best.Weight {
					best = PR{Exercise: strings.TrimSpace(ex.Name), Weight: set.Weight, Reps: set.Reps}
					found = true
				}
			}
		}
	}
	return best, found
}

// Achievement renders a set as "<exercise> <weight>x<reps>".
func (p PR) Achievement() string {
	return fmt.Sprintf("%s %sx%d", p.Exercise, formatWeight(p.Weight), p.Reps)
}
