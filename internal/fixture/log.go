package fixture

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// The workout log is the semicolon-separated export written by common
// set-tracking apps:
//
//	"Push · Day 1 · Week 4";"2026-02-17 5:04 h";"1:12 hr"
//	"1. Bench Press · Barbell · 6 reps";"WU1 · 47,5 kg · 8 reps<br>WU2 · 77,5 kg · 6 reps"
//	#;KG;REPS;RIR
//	1;102,5;6;0
//
// A blank line ends a session.
var (
	sessionHeaderRe  = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2})(?:\s+\d+:\d+)?(?:\s+h)?"(?:;"(.*)")?$`)
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+[^"]*?)?"(?:;"(.+)")?$`)
	setRowRe         = regexp.MustCompile(`^(\d+);([^;]+);(\d+)(?:;(.*))?$`)
	warmupRe         = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
	columnHeaderRe   = regexp.MustCompile(`^#;KG;REPS`)
)

// ParseLog reads a workout log and returns its sessions for userID. The
// first "·" segment of a session title becomes the session label, warmups
// listed in an exercise header become warmup sets and every numbered row is
// a normal set.
func ParseLog(r io.Reader, userID uuid.UUID) ([]models.WorkoutSession, error) {
	scanner := bufio.NewScanner(r)
	var (
		sessions []models.WorkoutSession
		current  *models.WorkoutSession
		exercise *models.ExerciseEntry
		lineNo   int
	)

	flushExercise := func() {
		if current != nil && exercise != nil {
			current.Exercises = append(current.Exercises, *exercise)
		}
		exercise = nil
	}
	flushSession := func() {
		flushExercise()
		if current != nil {
			sessions = append(sessions, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flushSession()

		case columnHeaderRe.MatchString(line):

		case sessionHeaderRe.MatchString(line):
			flushSession()
			m := sessionHeaderRe.FindStringSubmatch(line)
			t, err := time.Parse("2006-01-02", m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing session date %q: %w", lineNo, m[2], err)
			}
			label := sessionLabel(m[1])
			current = &models.WorkoutSession{
				ID:        uuid.New(),
				UserID:    userID,
				Date:      calendar.FromDate(t),
				CreatedAt: t,
			}
			if label != "" {
				current.Label = &label
			}

		case exerciseHeaderRe.MatchString(line):
			if current == nil {
				return nil, fmt.Errorf("line %d: exercise without session: %q", lineNo, line)
			}
			flushExercise()
			m := exerciseHeaderRe.FindStringSubmatch(line)
			pos, _ := strconv.Atoi(m[1])
			exercise = &models.ExerciseEntry{
				ID:        uuid.New(),
				SessionID: current.ID,
				Name:      strings.TrimSpace(m[2]),
				Position:  pos,
			}
			if m[3] != "" {
				exercise.Sets = append(exercise.Sets, parseWarmups(m[3], exercise.ID)...)
			}

		case setRowRe.MatchString(line):
			if exercise == nil {
				return nil, fmt.Errorf("line %d: set without exercise: %q", lineNo, line)
			}
			m := setRowRe.FindStringSubmatch(line)
			exercise.Sets = append(exercise.Sets, models.SetEntry{
				ID:              uuid.New(),
				ExerciseEntryID: exercise.ID,
				Position:        len(exercise.Sets) + 1,
				Weight:          parseWeight(m[2]),
				Reps:            atoi(m[3]),
				Variant:         models.VariantNormal,
			})

		default:
			// Notes and other metadata are ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading workout log: %w", err)
	}
	flushSession()
	return sessions, nil
}

// sessionLabel keeps the first "·" segment: "Legs · Day 2 · Week 4" -> "Legs".
func sessionLabel(title string) string {
	parts := strings.Split(title, "·")
	return strings.TrimSpace(parts[0])
}

// parseWarmups extracts warmup sets from "WU1 · 37,5 kg · 9 reps<br>WU2 · ...".
func parseWarmups(s string, exerciseID uuid.UUID) []models.SetEntry {
	var sets []models.SetEntry
	for _, part := range strings.Split(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		sets = append(sets, models.SetEntry{
			ID:              uuid.New(),
			ExerciseEntryID: exerciseID,
			Position:        len(sets) + 1,
			Weight:          parseWeight(m[2]),
			Reps:            atoi(m[3]),
			Variant:         models.VariantWarmup,
		})
	}
	return sets
}

// parseWeight accepts European decimals and bodyweight-plus notation:
// "102,5" -> 102.5, "+35" -> 35.
func parseWeight(s string) float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return f
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
