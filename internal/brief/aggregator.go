package brief

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/metrics"
	"github.com/nhanzalone1/netgains/internal/models"
	"golang.org/x/sync/errgroup"
)

// Store is the read-only data access the engine depends on. Both
// *storage.DB (Postgres) and *fixture.Store (memory) satisfy it.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetTrainingSettings(ctx context.Context, userID uuid.UUID) (*models.TrainingSettings, error)
	// RecentSessions returns up to limit sessions dated on or before through,
	// most recent first, with exercises and sets in logged order.
	RecentSessions(ctx context.Context, userID uuid.UUID, through calendar.Day, limit int) ([]models.WorkoutSession, error)
	ConsumedNutrition(ctx context.Context, userID uuid.UUID, day calendar.Day) (models.NutritionTotals, error)
	GetNutritionGoals(ctx context.Context, userID uuid.UUID) (*models.NutritionTotals, error)
	// BestWeights returns the all-time heaviest working-set weight per
	// exercise, keyed by models.ExerciseKey, over sessions dated before the given day.
	BestWeights(ctx context.Context, userID uuid.UUID, before calendar.Day, names []string) (map[string]float64, error)
}

// Sub-query names used in logs, metrics and Response.Degraded.
const (
	SourceProfile        = "profile"
	SourceSettings       = "settings"
	SourceSessions       = "sessions"
	SourceNutrition      = "nutrition"
	SourceNutritionGoals = "nutrition_goals"
	SourcePRHistory      = "pr_history"
)

// Degradation records a sub-query that failed and was replaced by an empty value.
type Degradation struct {
	Source string
	Err    error
}

// Activity is the loaded data for one user and day.
type Activity struct {
	Settings     models.TrainingSettings
	Sessions     []models.WorkoutSession
	PriorBest    map[string]float64
	Consumed     models.NutritionTotals
	Goals        *models.NutritionTotals
	Degradations []Degradation
}

// Sources lists the degraded sub-queries.
func (a *Activity) Sources() []string {
	var out []string
	for _, d := range a.Degradations {
		out = append(out, d.Source)
	}
	return out
}

// Aggregator loads activity with partial-failure tolerance: each sub-query
// runs under its own timeout and a failure degrades to an empty result.
type Aggregator struct {
	store   Store
	window  int
	timeout time.Duration
	metrics *metrics.Manager
	log     *slog.Logger
}

// NewAggregator creates an Aggregator loading up to window recent sessions.
func NewAggregator(store Store, window int, timeout time.Duration, m *metrics.Manager, log *slog.Logger) *Aggregator {
	return &Aggregator{store: store, window: window, timeout: timeout, metrics: m, log: log}
}

// Profile loads the user's profile. ok is false when the query failed.
func (a *Aggregator) Profile(ctx context.Context, userID uuid.UUID) (p *models.Profile, ok bool) {
	qctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	p, err := a.store.GetProfile(qctx, userID)
	if err != nil {
		a.degraded(userID, SourceProfile, err)
		return nil, false
	}
	return p, true
}

// Load runs the independent sub-queries concurrently, then loads the
// record history for the exercises logged today.
func (a *Aggregator) Load(ctx context.Context, userID uuid.UUID, today calendar.Day) *Activity {
	act := &Activity{}
	var (
		mu   sync.Mutex
		degs []Degradation
	)
	record := func(source string, err error) {
		a.degraded(userID, source, err)
		mu.Lock()
		degs = append(degs, Degradation{Source: source, Err: err})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, a.timeout)
		defer cancel()
		s, err := a.store.GetTrainingSettings(qctx, userID)
		if err != nil {
			record(SourceSettings, err)
			return nil
		}
		if s != nil {
			act.Settings = *s
		}
		return nil
	})

	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, a.timeout)
		defer cancel()
		sessions, err := a.store.RecentSessions(qctx, userID, today, a.window)
		if err != nil {
			record(SourceSessions, err)
			return nil
		}
		act.Sessions = sessions
		return nil
	})

	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, a.timeout)
		defer cancel()
		totals, err := a.store.ConsumedNutrition(qctx, userID, today)
		if err != nil {
			record(SourceNutrition, err)
			return nil
		}
		act.Consumed = totals
		return nil
	})

	g.Go(func() error {
		qctx, cancel := context.WithTimeout(gctx, a.timeout)
		defer cancel()
		goals, err := a.store.GetNutritionGoals(qctx, userID)
		if err != nil {
			record(SourceNutritionGoals, err)
			return nil
		}
		act.Goals = goals
		return nil
	})

	_ = g.Wait()

	act.PriorBest = map[string]float64{}
	_, todays := splitByDay(act.Sessions, today)
	if names := exerciseNames(todays); len(names) > 0 {
		qctx, cancel := context.WithTimeout(ctx, a.timeout)
		best, err := a.store.BestWeights(qctx, userID, today, names)
		cancel()
		switch {
		case err != nil:
			record(SourcePRHistory, err)
			act.PriorBest = nil
		case best != nil:
			act.PriorBest = best
		}
	}

	sort.Slice(degs, func(i, j int) bool { return degs[i].Source < degs[j].Source })
	act.Degradations = degs
	return act
}

func (a *Aggregator) degraded(userID uuid.UUID, source string, err error) {
	a.log.Warn("brief: sub-query failed, using empty result",
		"source", source, "user_id", userID, "error", err)
	a.metrics.CounterDegradations.WithLabelValues(source).Inc()
}
