package brief

import (
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// RotationSource records which rule produced the suggestion.
type RotationSource string

const (
	SourceRotation      RotationSource = "rotation"
	SourceFallbackFirst RotationSource = "fallback_first"
	SourceStart         RotationSource = "start"
	SourceBodyPart      RotationSource = "body_part"
)

// Rotation is the resolved schedule position for today.
type Rotation struct {
	Suggested     string         `json:"suggested"`
	Source        RotationSource `json:"source"`
	MatchedIndex  int            `json:"matched_index"`
	PreviousLabel string         `json:"previous_label,omitempty"`
	TodayLabel    string         `json:"today_label,omitempty"`
}

// IsRest reports whether the suggested day is a scheduled rest day.
func (r Rotation) IsRest() bool {
	return models.IsRestLabel(r.Suggested)
}

// ResolveRotation derives today's suggested workout. Only sessions dated
// strictly before today move the rotation; a session logged today affects
// TodayLabel and nothing else. sessions must be ordered most recent first.
func ResolveRotation(spec models.RotationSpec, sessions []models.WorkoutSession, today calendar.Day) Rotation {
	prior, todays := splitByDay(sessions, today)
	rot := Rotation{MatchedIndex: -1, TodayLabel: todayLabel(todays)}

	var last *models.WorkoutSession
	if len(prior) > 0 {
		last = &prior[0]
		rot.PreviousLabel = CleanLabel(last.LabelText())
	}

	if len(spec.Days) == 0 {
		rot.Suggested, rot.Source = nextBodyPart(last)
		return rot
	}

	switch {
	case last == nil:
		rot.Suggested, rot.Source = spec.Days[0], SourceStart
	default:
		if i := matchRotation(rot.PreviousLabel, spec.Days); i >= 0 {
			rot.MatchedIndex = i
			rot.Suggested, rot.Source = spec.Days[(i+1)%len(spec.Days)], SourceRotation
		} else {
			rot.Suggested, rot.Source = firstTrainingDay(spec.Days), SourceFallbackFirst
		}
	}
	return rot
}

func splitByDay(sessions []models.WorkoutSession, today calendar.Day) (prior, todays []models.WorkoutSession) {
	for _, s := range sessions {
		switch {
		case s.Date.Before(today):
			prior = append(prior, s)
		case s.Date.Equal(today):
			todays = append(todays, s)
		}
	}
	return prior, todays
}

func firstTrainingDay(days []string) string {
	for _, d := range days {
		if !models.IsRestLabel(d) {
			return d
		}
	}
	return days[0]
}

// nextBodyPart advances the fixed body-part rotation from the group the
// last session trained.
func nextBodyPart(last *models.WorkoutSession) (string, RotationSource) {
	if last == nil {
		return bodyPartOrder[0], SourceStart
	}
	group := sessionGroup(*last)
	for i, g := range bodyPartOrder {
		if g == group {
			return bodyPartOrder[(i+1)%len(bodyPartOrder)], SourceBodyPart
		}
	}
	return bodyPartOrder[0], SourceBodyPart
}

// sessionGroup classifies a session by the group most of its exercises
// train, ties going to the earlier group in the body-part order. When no
// exercise is recognized the label itself is classified.
func sessionGroup(s models.WorkoutSession) string {
	counts := make(map[string]int)
	for _, ex := range s.Exercises {
		if g := classifyExercise(ex.Name); g != "" {
			counts[g]++
		}
	}
	best, bestCount := "", 0
	for _, g := range bodyPartOrder {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	if best != "" {
		return best
	}
	return classifyExercise(CleanLabel(s.LabelText()))
}

// todayLabel names what was trained today: the first labelled session,
// else the classified group, else a generic name.
func todayLabel(todays []models.WorkoutSession) string {
	if len(todays) == 0 {
		return ""
	}
	for _, s := range todays {
		if l := CleanLabel(s.LabelText()); l != "" {
			return l
		}
	}
	for _, s := range todays {
		if g := sessionGroup(s); g != "" {
			return g
		}
	}
	return "Workout"
}
