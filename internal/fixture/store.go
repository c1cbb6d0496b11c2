// Package fixture provides an in-memory brief store and a workout-log
// parser for offline briefs and tests.
package fixture

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/models"
)

// Method names accepted by FailOn and SlowOn.
const (
	MethodGetProfile          = "GetProfile"
	MethodGetTrainingSettings = "GetTrainingSettings"
	MethodRecentSessions      = "RecentSessions"
	MethodConsumedNutrition   = "ConsumedNutrition"
	MethodGetNutritionGoals   = "GetNutritionGoals"
	MethodBestWeights         = "BestWeights"
)

// Store keeps all data in memory. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	profiles  map[uuid.UUID]models.Profile
	settings  map[uuid.UUID]models.TrainingSettings
	sessions  map[uuid.UUID][]models.WorkoutSession
	nutrition map[uuid.UUID][]models.NutritionEntry
	goals     map[uuid.UUID]models.NutritionTotals
	failures  map[string]error
	delays    map[string]time.Duration
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		profiles:  make(map[uuid.UUID]models.Profile),
		settings:  make(map[uuid.UUID]models.TrainingSettings),
		sessions:  make(map[uuid.UUID][]models.WorkoutSession),
		nutrition: make(map[uuid.UUID][]models.NutritionEntry),
		goals:     make(map[uuid.UUID]models.NutritionTotals),
		failures:  make(map[string]error),
		delays:    make(map[string]time.Duration),
	}
}

func (s *Store) SetProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *Store) SetSettings(userID uuid.UUID, ts models.TrainingSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[userID] = ts
}

func (s *Store) SetNutritionGoals(userID uuid.UUID, g models.NutritionTotals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[userID] = g
}

// AddSessions appends sessions for their UserID. Sessions added later sort
// ahead of earlier ones on the same date.
func (s *Store) AddSessions(sessions ...models.WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range sessions {
		if sess.ID == uuid.Nil {
			sess.ID = uuid.New()
		}
		s.sessions[sess.UserID] = append(s.sessions[sess.UserID], sess)
	}
}

// DeleteSessions removes every session of a user on the given day.
func (s *Store) DeleteSessions(userID uuid.UUID, day calendar.Day) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sessions[userID][:0]
	removed := 0
	for _, sess := range s.sessions[userID] {
		if sess.Date.Equal(day) {
			removed++
			continue
		}
		kept = append(kept, sess)
	}
	s.sessions[userID] = kept
	return removed
}

func (s *Store) AddNutrition(entries ...models.NutritionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.nutrition[e.UserID] = append(s.nutrition[e.UserID], e)
	}
}

// FailOn makes the named method return err. A nil err clears the failure.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// SlowOn makes the named method wait d (or until its context is done) before answering.
func (s *Store) SlowOn(method string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[method] = d
}

func (s *Store) before(ctx context.Context, method string) error {
	s.mu.RLock()
	err, delay := s.failures[method], s.delays[method]
	s.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("fixture: %s: %w", method, ctx.Err())
		}
	}
	if err != nil {
		return fmt.Errorf("fixture: %s: %w", method, err)
	}
	return nil
}

// GetProfile returns nil without error when the user has no profile.
func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if err := s.before(ctx, MethodGetProfile); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) GetTrainingSettings(ctx context.Context, userID uuid.UUID) (*models.TrainingSettings, error) {
	if err := s.before(ctx, MethodGetTrainingSettings); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.settings[userID]
	if !ok {
		return nil, nil
	}
	ts.Rotation.Days = append([]string(nil), ts.Rotation.Days...)
	return &ts, nil
}

func (s *Store) RecentSessions(ctx context.Context, userID uuid.UUID, through calendar.Day, limit int) ([]models.WorkoutSession, error) {
	if err := s.before(ctx, MethodRecentSessions); err != nil {
		return nil, err
	}
	s.mu.RLock()
	all := s.sessions[userID]
	var out []models.WorkoutSession
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].Date.After(through) {
			out = append(out, all[i])
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ConsumedNutrition(ctx context.Context, userID uuid.UUID, day calendar.Day) (models.NutritionTotals, error) {
	if err := s.before(ctx, MethodConsumedNutrition); err != nil {
		return models.NutritionTotals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var t models.NutritionTotals
	for _, e := range s.nutrition[userID] {
		if e.Consumed && e.Date.Equal(day) {
			t = t.Add(e)
		}
	}
	return t, nil
}

func (s *Store) GetNutritionGoals(ctx context.Context, userID uuid.UUID) (*models.NutritionTotals, error) {
	if err := s.before(ctx, MethodGetNutritionGoals); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *Store) BestWeights(ctx context.Context, userID uuid.UUID, before calendar.Day, names []string) (map[string]float64, error) {
	if err := s.before(ctx, MethodBestWeights); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	best := make(map[string]float64)
	for _, sess := range s.sessions[userID] {
		if !sess.Date.Before(before) {
			continue
		}
		for _, ex := range sess.Exercises {
			k := models.ExerciseKey(ex.Name)
			if !wanted[k] {
				continue
			}
			for _, set := range ex.Sets {
				if !set.IsWorking() {
					continue
				}
				if cur, ok := best[k]; !ok || set.Weight > cur {
					best[k] = set.Weight
				}
			}
		}
	}
	return best, nil
}
