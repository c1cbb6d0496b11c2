package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/metrics"
)

// Engine is the part of *brief.Engine the service needs.
type Engine interface {
	Period(req brief.Request) calendar.Period
	GenerateFor(ctx context.Context, userID uuid.UUID, period calendar.Period) *brief.Response
}

var _ Engine = (*brief.Engine)(nil)

// Service serves briefs through a Store. Cache failures are logged and
// never fail a request.
type Service struct {
	engine  Engine
	store   Store
	ttl     time.Duration
	metrics *metrics.Manager
	log     *slog.Logger
}

func NewService(engine Engine, store Store, ttl time.Duration, m *metrics.Manager, log *slog.Logger) *Service {
	return &Service{engine: engine, store: store, ttl: ttl, metrics: m, log: log}
}

// Brief returns the cached brief for the request's day, computing and
// storing it on a miss. Entries written by an older BriefVersion are
// treated as misses. Only complete generated briefs are stored.
func (s *Service) Brief(ctx context.Context, req brief.Request) *brief.Response {
	period := s.engine.Period(req)
	key := Key{UserID: req.UserID, Day: period.Today}

	cached, err := s.store.Get(ctx, key)
	switch {
	case err == nil && cached.Version == brief.BriefVersion:
		s.metrics.CounterCache.WithLabelValues("hit").Inc()
		return cached
	case err == nil:
		s.metrics.CounterCache.WithLabelValues("stale").Inc()
		s.log.Info("cache: discarding brief from older version",
			"user_id", req.UserID, "date", key.Day, "version", cached.Version)
	case errors.Is(err, ErrMiss):
		s.metrics.CounterCache.WithLabelValues("miss").Inc()
	default:
		s.metrics.CounterCache.WithLabelValues("error").Inc()
		s.log.Warn("cache: lookup failed, computing brief", "user_id", req.UserID, "date", key.Day, "error", err)
	}

	resp := s.engine.GenerateFor(ctx, req.UserID, period)
	if resp.Cacheable() {
		if err := s.store.Set(ctx, key, resp, s.ttl); err != nil {
			s.log.Warn("cache: storing brief failed", "user_id", req.UserID, "date", key.Day, "error", err)
		}
	}
	return resp
}

// Invalidate drops the user's cached briefs after a data change.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID, ev Event) error {
	if err := s.store.Invalidate(ctx, userID); err != nil {
		s.log.Error("cache: invalidation failed", "user_id", userID, "event", ev, "error", err)
		return err
	}
	s.metrics.CounterInvalidation.WithLabelValues(string(ev)).Inc()
	s.log.Debug("cache: invalidated", "user_id", userID, "event", ev)
	return nil
}
