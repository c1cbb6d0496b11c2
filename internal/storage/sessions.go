package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// exerciseSetRow is one row of the exercise/set join. Set columns are nil
// for an exercise logged without sets.
type exerciseSetRow struct {
	ExerciseID  uuid.UUID
	SessionID   uuid.UUID
	Name        string
	Position    int
	SetID       *uuid.UUID
	SetPosition *int
	Weight      *float64
	Reps        *int
	Variant     *string
}

// RecentSessions returns up to limit sessions dated on or before through,
// most recent first, with their exercises and sets in logged order.
func (db *DB) RecentSessions(ctx context.Context, userID uuid.UUID, through calendar.Day, limit int) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, date, label, created_at
		 FROM workout_sessions
		 WHERE user_id = $1 AND date <= $2
		 ORDER BY date DESC, created_at DESC
		 LIMIT $3`,
		userID, through.Time(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessionRows(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT e.id, e.session_id, e.name, e.position,
		 s.id, s.position, s.weight, s.reps, s.variant
		 FROM exercise_entries e
		 LEFT JOIN set_entries s ON s.exercise_entry_id = e.id
		 WHERE e.session_id = ANY($1)
		 ORDER BY e.session_id, e.position ASC, e.id, s.position ASC`,
		ids)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	var joined []exerciseSetRow
	for exRows.Next() {
		var r exerciseSetRow
		if err := exRows.Scan(&r.ExerciseID, &r.SessionID, &r.Name, &r.Position,
			&r.SetID, &r.SetPosition, &r.Weight, &r.Reps, &r.Variant); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		joined = append(joined, r)
	}
	if err := exRows.Err(); err != nil {
		return nil, fmt.Errorf("reading exercises: %w", err)
	}

	attachExercises(sessions, joined)
	return sessions, nil
}

// attachExercises nests joined rows under their sessions. Rows must be
// ordered by exercise position, then set position.
func attachExercises(sessions []models.WorkoutSession, rows []exerciseSetRow) {
	index := make(map[uuid.UUID]int, len(sessions))
	for i := range sessions {
		index[sessions[i].ID] = i
		sessions[i].Exercises = nil
	}

	for _, r := range rows {
		si, ok := index[r.SessionID]
		if !ok {
			continue
		}
		sess := &sessions[si]
		n := len(sess.Exercises)
		if n == 0 || sess.Exercises[n-1].ID != r.ExerciseID {
			sess.Exercises = append(sess.Exercises, models.ExerciseEntry{
				ID:        r.ExerciseID,
				SessionID: r.SessionID,
				Name:      r.Name,
				Position:  r.Position,
			})
			n++
		}
		if r.SetID == nil {
			continue
		}

		set := models.SetEntry{ID: *r.SetID, ExerciseEntryID: r.ExerciseID, Variant: models.VariantNormal}
		if r.SetPosition != nil {
			set.Position = *r.SetPosition
		}
		if r.Weight != nil {
			set.Weight = *r.Weight
		}
		if r.Reps != nil {
			set.Reps = *r.Reps
		}
		if r.Variant != nil {
			set.Variant = models.ParseSetVariant(*r.Variant)
		}
		sess.Exercises[n-1].Sets = append(sess.Exercises[n-1].Sets, set)
	}
}

// BestWeights returns the heaviest working-set weight per exercise over all
// sessions dated before the given day, keyed by models.ExerciseKey.
func (db *DB) BestWeights(ctx context.Context, userID uuid.UUID, before calendar.Day, names []string) (map[string]float64, error) {
	best := make(map[string]float64)
	if len(names) == 0 {
		return best, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = models.ExerciseKey(n)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT lower(btrim(e.name, $4)) AS exercise, MAX(s.weight)
		 FROM set_entries s
		 JOIN exercise_entries e ON e.id = s.exercise_entry_id
		 JOIN workout_sessions w ON w.id = e.session_id
		 WHERE w.user_id = $1 AND w.date < $2
		   AND lower(btrim(s.variant, $4)) <> 'warmup'
		   AND lower(btrim(e.name, $4)) = ANY($3)
		 GROUP BY 1`,
		userID, before.Time(), keys, models.KeySpace)
	if err != nil {
		return nil, fmt.Errorf("querying best weights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var weight float64
		if err := rows.Scan(&name, &weight); err != nil {
			return nil, fmt.Errorf("scanning best weight: %w", err)
		}
		best[name] = weight
	}
	return best, rows.Err()
}

func scanSessionRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.WorkoutSession, error) {
	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		var date time.Time
		if err := rows.Scan(&s.ID, &s.UserID, &date, &s.Label, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Date = calendar.FromDate(date)
		result = append(result, s)
	}
	return result, rows.Err()
}
