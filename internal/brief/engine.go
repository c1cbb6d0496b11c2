package brief

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/metrics"
	"github.com/nhanzalone1/netgains/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Facts are the deterministic values handed to the text generator.
type Facts struct {
	Date        calendar.Day
	Mode        Mode
	Focus       string
	Target      string
	Achievement string
	PRs         []PR
	Consumed    models.NutritionTotals
	Goals       *models.NutritionTotals
}

// Enrichment is the generator's proposed phrasing.
type Enrichment struct {
	Focus  string `json:"focus"`
	Target string `json:"target"`
}

// Generator produces optional stylistic text for a brief.
type Generator interface {
	Enrich(ctx context.Context, facts Facts) (*Enrichment, error)
}

// Config tunes the engine.
type Config struct {
	WindowSessions int
	QueryTimeout   time.Duration
	EnrichTimeout  time.Duration
	MaxFocusLen    int
	MaxTargetLen   int
	Location       *time.Location
}

// Request identifies one brief computation.
type Request struct {
	UserID uuid.UUID
	// EffectiveDate overrides "today" (YYYY-MM-DD or RFC 3339). Empty means now.
	EffectiveDate string
	// Location is the user's zone. Nil uses Config.Location.
	Location *time.Location
}

// Engine computes briefs. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	agg     *Aggregator
	gen     Generator
	cfg     Config
	metrics *metrics.Manager
	log     *slog.Logger
	now     func() time.Time
	tracer  trace.Tracer
}

// NewEngine creates an Engine. gen may be nil to disable enrichment.
func NewEngine(store Store, gen Generator, cfg Config, m *metrics.Manager, log *slog.Logger) *Engine {
	if cfg.WindowSessions <= 0 {
		cfg.WindowSessions = 14
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 3 * time.Second
	}
	if cfg.EnrichTimeout <= 0 {
		cfg.EnrichTimeout = 2 * time.Second
	}
	if cfg.MaxFocusLen <= 0 {
		cfg.MaxFocusLen = 40
	}
	if cfg.MaxTargetLen <= 0 {
		cfg.MaxTargetLen = 120
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{
		agg:     NewAggregator(store, cfg.WindowSessions, cfg.QueryTimeout, m, log),
		gen:     gen,
		cfg:     cfg,
		metrics: m,
		log:     log,
		now:     time.Now,
		tracer:  otel.Tracer("brief"),
	}
}

// WithClock replaces the engine's clock. Used by tests and the debug CLI.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Period resolves the effective day for req. An unparseable override is
// logged and ignored.
func (e *Engine) Period(req Request) calendar.Period {
	loc := req.Location
	if loc == nil {
		loc = e.cfg.Location
	}
	p, err := calendar.Resolve(req.EffectiveDate, e.now(), loc)
	if err != nil {
		e.log.Warn("brief: ignoring invalid date override", "user_id", req.UserID, "error", err)
	}
	return p
}

// Generate computes the brief for req. It never fails: every path yields
// either a not_onboarded or a generated response.
func (e *Engine) Generate(ctx context.Context, req Request) *Response {
	return e.GenerateFor(ctx, req.UserID, e.Period(req))
}

// GenerateFor computes the brief for an already resolved period.
func (e *Engine) GenerateFor(ctx context.Context, userID uuid.UUID, period calendar.Period) *Response {
	resp, _ := e.generate(ctx, userID, period)
	return resp
}

// Explain is GenerateFor plus the intermediate decisions, for debugging.
func (e *Engine) Explain(ctx context.Context, userID uuid.UUID, period calendar.Period) (*Response, *Analysis) {
	return e.generate(ctx, userID, period)
}

func (e *Engine) generate(ctx context.Context, userID uuid.UUID, period calendar.Period) (*Response, *Analysis) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "brief.Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("brief.date", period.Today.String()),
		),
	)
	defer span.End()
	defer func() { e.metrics.HistGenerateDuration.Observe(time.Since(start).Seconds()) }()

	profile, ok := e.agg.Profile(ctx, userID)
	if ok && !profile.Onboarded() {
		e.metrics.CounterBriefs.WithLabelValues(string(StatusNotOnboarded), "").Inc()
		span.SetAttributes(attribute.String("brief.status", string(StatusNotOnboarded)))
		return &Response{Status: StatusNotOnboarded}, nil
	}

	act := e.agg.Load(ctx, userID, period.Today)
	b, an := Assemble(Input{
		UserID:    userID,
		Period:    period,
		Settings:  act.Settings,
		Sessions:  act.Sessions,
		PriorBest: act.PriorBest,
		Consumed:  act.Consumed,
		Goals:     act.Goals,
	})

	degraded := act.Sources()
	if !ok {
		degraded = append([]string{SourceProfile}, degraded...)
	}

	b.Styled = e.enrich(ctx, userID, period.Today, b)

	generatedAt := e.now().UTC()
	e.metrics.CounterBriefs.WithLabelValues(string(StatusGenerated), string(b.Mode)).Inc()
	span.SetAttributes(
		attribute.String("brief.status", string(StatusGenerated)),
		attribute.String("brief.mode", string(b.Mode)),
		attribute.Int("brief.degraded", len(degraded)),
	)

	return &Response{
		Status:      StatusGenerated,
		Version:     BriefVersion,
		Date:        period.Today,
		Brief:       b,
		GeneratedAt: &generatedAt,
		Degraded:    degraded,
	}, &an
}

// enrich asks the generator for nicer phrasing under a hard timeout. Any
// failure, timeout or out-of-bounds output is discarded.
func (e *Engine) enrich(ctx context.Context, userID uuid.UUID, day calendar.Day, b *Brief) *Styled {
	if e.gen == nil {
		e.metrics.CounterEnrichment.WithLabelValues("disabled").Inc()
		return nil
	}

	ectx, cancel := context.WithTimeout(ctx, e.cfg.EnrichTimeout)
	defer cancel()

	type result struct {
		en  *Enrichment
		err error
	}
	done := make(chan result, 1)
	go func() {
		en, err := e.gen.Enrich(ectx, Facts{
			Date:        day,
			Mode:        b.Mode,
			Focus:       b.Focus,
			Target:      b.Target,
			Achievement: b.Achievement,
			PRs:         b.PRs,
			Consumed:    b.Nutrition.Consumed,
			Goals:       b.Nutrition.Goals,
		})
		done <- result{en, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ectx.Done():
		r.err = ectx.Err()
	}

	outcome := "ok"
	var styled *Styled
	switch {
	case errors.Is(r.err, context.DeadlineExceeded):
		outcome = "timeout"
	case r.err != nil:
		outcome = "error"
	default:
		styled = e.validate(r.en)
		if styled == nil {
			outcome = "invalid"
		}
	}
	if outcome != "ok" {
		e.log.Warn("brief: enrichment discarded, using deterministic text",
			"source", "enrichment", "outcome", outcome, "user_id", userID, "error", r.err)
	}
	e.metrics.CounterEnrichment.WithLabelValues(outcome).Inc()
	return styled
}

func (e *Engine) validate(en *Enrichment) *Styled {
	if en == nil {
		return nil
	}
	focus, target := strings.TrimSpace(en.Focus), strings.TrimSpace(en.Target)
	if focus == "" || target == "" {
		return nil
	}
	if utf8.RuneCountInString(focus) > e.cfg.MaxFocusLen || utf8.RuneCountInString(target) > e.cfg.MaxTargetLen {
		return nil
	}
	return &Styled{Focus: focus, Target: target}
}
