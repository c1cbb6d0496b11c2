package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/fixture"
	"github.com/nhanzalone1/netgains/internal/metrics"
	"github.com/nhanzalone1/netgains/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2026, 3, 13, 15, 0, 0, 0, time.UTC)

// countingEngine counts computations on top of a real engine.
type countingEngine struct {
	*brief.Engine
	calls atomic.Int32
}

func (c *countingEngine) GenerateFor(ctx context.Context, userID uuid.UUID, period calendar.Period) *brief.Response {
	c.calls.Add(1)
	return c.Engine.GenerateFor(ctx, userID, period)
}

// failingStore always errors.
type failingStore struct{}

func (failingStore) Get(context.Context, Key) (*brief.Response, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Set(context.Context, Key, *brief.Response, time.Duration) error {
	return errors.New("connection refused")
}
func (failingStore) Invalidate(context.Context, uuid.UUID) error {
	return errors.New("connection refused")
}

func ptr[T any](v T) *T { return &v }

func seedUser(store *fixture.Store) uuid.UUID {
	user := uuid.New()
	store.SetProfile(models.Profile{UserID: user, HeightCM: ptr(180.0), WeightKG: ptr(80.0), Goal: ptr("hypertrophy")})
	store.SetSettings(user, models.TrainingSettings{Rotation: models.RotationSpec{Days: []string{"Push", "Pull", "Legs"}}})
	label := "Push"
	store.AddSessions(models.WorkoutSession{
		UserID: user,
		Date:   calendar.Date(2026, 3, 12),
		Label:  &label,
		Exercises: []models.ExerciseEntry{{
			Name: "Bench Press",
			Sets: []models.SetEntry{{Weight: 100, Reps: 5}},
		}},
	})
	return user
}

func newService(t *testing.T, data *fixture.Store, store Store) (*Service, *countingEngine, *metrics.Manager) {
	t.Helper()
	m := metrics.NewTestManager()
	eng := brief.NewEngine(data, nil, brief.Config{}, m, slog.Default()).
		WithClock(func() time.Time { return serviceNow })
	ce := &countingEngine{Engine: eng}
	return NewService(ce, store, time.Hour, m, slog.Default()), ce, m
}

func TestServiceCachesGeneratedBrief(t *testing.T) {
	data := fixture.New()
	user := seedUser(data)
	svc, eng, m := newService(t, data, NewMemoryStore())

	first := svc.Brief(context.Background(), brief.Request{UserID: user})
	require.Equal(t, brief.StatusGenerated, first.Status)
	assert.Equal(t, "Pull", first.Brief.Focus)

	second := svc.Brief(context.Background(), brief.Request{UserID: user})
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, eng.calls.Load(), "second request must be served from cache")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCache.WithLabelValues("miss")))
}

func TestServiceInvalidateRecomputes(t *testing.T) {
	data := fixture.New()
	user := seedUser(data)
	svc, eng, m := newService(t, data, NewMemoryStore())
	ctx := context.Background()

	before := svc.Brief(ctx, brief.Request{UserID: user})
	assert.Equal(t, brief.ModePreWorkout, before.Brief.Mode)

	label := "Pull"
	data.AddSessions(models.WorkoutSession{UserID: user, Date: calendar.Date(2026, 3, 13), Label: &label})
	require.NoError(t, svc.Invalidate(ctx, user, EventWorkoutSaved))

	after := svc.Brief(ctx, brief.Request{UserID: user})
	assert.Equal(t, brief.ModePostWorkout, after.Brief.Mode)
	assert.Equal(t, "Pull Complete", after.Brief.Focus)
	assert.EqualValues(t, 2, eng.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterInvalidation.WithLabelValues(string(EventWorkoutSaved))))
}

func TestServiceDiscardsStaleVersion(t *testing.T) {
	data := fixture.New()
	user := seedUser(data)
	store := NewMemoryStore()
	svc, eng, _ := newService(t, data, store)

	old := &brief.Response{Status: brief.StatusGenerated, Version: brief.BriefVersion - 1,
		Brief: &brief.Brief{Mode: brief.ModeRestDay, Focus: "Rest"}}
	require.NoError(t, store.Set(context.Background(), Key{UserID: user, Day: calendar.Date(2026, 3, 13)}, old, time.Hour))

	got := svc.Brief(context.Background(), brief.Request{UserID: user})
	assert.Equal(t, brief.BriefVersion, got.Version)
	assert.Equal(t, "Pull", got.Brief.Focus)
	assert.EqualValues(t, 1, eng.calls.Load())
}

func TestServiceSkipsIncompleteBriefs(t *testing.T) {
	data := fixture.New()
	user := seedUser(data)
	data.FailOn(fixture.MethodConsumedNutrition, errors.New("timeout"))
	stranger := uuid.New()
	svc, eng, _ := newService(t, data, NewMemoryStore())

	for i := 0; i < 2; i++ {
		resp := svc.Brief(context.Background(), brief.Request{UserID: user})
		assert.Equal(t, []string{brief.SourceNutrition}, resp.Degraded)
		assert.Equal(t, brief.StatusNotOnboarded, svc.Brief(context.Background(), brief.Request{UserID: stranger}).Status)
	}
	assert.EqualValues(t, 4, eng.calls.Load(), "degraded and not_onboarded responses are never cached")
}

func TestServiceSurvivesStoreFailure(t *testing.T) {
	data := fixture.New()
	user := seedUser(data)
	svc, _, m := newService(t, data, failingStore{})

	resp := svc.Brief(context.Background(), brief.Request{UserID: user})
	assert.Equal(t, brief.StatusGenerated, resp.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterCache.WithLabelValues("error")))

	assert.Error(t, svc.Invalidate(context.Background(), user, EventSettingsChanged))
}

func TestServiceKeysByResolvedDay(t *testing.T) {
	data := fixture.New()
	user := seedUser(data)
	store := NewMemoryStore()
	svc, _, _ := newService(t, data, store)

	resp := svc.Brief(context.Background(), brief.Request{UserID: user, EffectiveDate: "2026-03-12"})
	assert.Equal(t, calendar.Date(2026, 3, 12), resp.Date)

	cached, err := store.Get(context.Background(), Key{UserID: user, Day: calendar.Date(2026, 3, 12)})
	require.NoError(t, err)
	assert.Equal(t, resp, cached)

	_, err = store.Get(context.Background(), Key{UserID: user, Day: calendar.Date(2026, 3, 13)})
	assert.ErrorIs(t, err, ErrMiss)
}
