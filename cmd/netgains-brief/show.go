package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/cache"
	"github.com/nhanzalone1/netgains/internal/calendar"
	"github.com/nhanzalone1/netgains/internal/config"
	"github.com/nhanzalone1/netgains/internal/fixture"
	briefmcp "github.com/nhanzalone1/netgains/internal/mcp"
	"github.com/nhanzalone1/netgains/internal/metrics"
	"github.com/nhanzalone1/netgains/internal/models"
	"github.com/nhanzalone1/netgains/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type showOptions struct {
	user     string
	date     string
	tz       string
	config   string
	logFile  string
	rotation string
	goal     int
	remote   string
	apiKey   string
	cacheDir string
	explain  bool
}

func showCmd(logLevel *string) *cobra.Command {
	var o showOptions

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the daily brief for a user as JSON",
		Long: `Print the daily brief for a user as JSON.

Exactly one source is used: --remote fetches from a running server, --log
replays an exported workout log, and otherwise the database named in
--config is queried.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), newLogger(*logLevel), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.user, "user", "", "User ID (UUID)")
	f.StringVar(&o.date, "date", "", "Effective date (YYYY-MM-DD); defaults to today")
	f.StringVar(&o.tz, "tz", "", "IANA timezone used to resolve today")
	f.StringVarP(&o.config, "config", "c", "config.yaml", "Config file path")
	f.StringVar(&o.logFile, "log", "", "Workout log to replay instead of the database")
	f.StringVar(&o.rotation, "rotation", "", "Comma-separated rotation used with --log")
	f.IntVar(&o.goal, "days-per-week", 0, "Weekly goal used with --log")
	f.StringVar(&o.remote, "remote", "", "Base URL of a running NetGains server")
	f.StringVar(&o.apiKey, "api-key", "", "API key for --remote")
	f.StringVar(&o.cacheDir, "cache-dir", "", "Cache briefs in a SQLite database in this directory")
	f.BoolVar(&o.explain, "explain", false, "Include the rotation, rest and target analysis")
	_ = cmd.MarkFlagRequired("user")
	cmd.MarkFlagsMutuallyExclusive("remote", "log")
	cmd.MarkFlagsMutuallyExclusive("remote", "explain")
	cmd.MarkFlagsMutuallyExclusive("remote", "cache-dir")
	cmd.MarkFlagsMutuallyExclusive("explain", "cache-dir")

	return cmd
}

func runShow(ctx context.Context, w io.Writer, log *slog.Logger, o showOptions) error {
	userID, err := parseUser(o.user)
	if err != nil {
		return err
	}
	req := brief.Request{UserID: userID, EffectiveDate: o.date}
	if o.tz != "" {
		loc, err := calendar.LoadLocation(o.tz, nil)
		if err != nil {
			return fmt.Errorf("invalid --tz: %w", err)
		}
		req.Location = loc
	}

	if o.remote != "" {
		resp, err := briefmcp.NewHTTPClient(o.remote, o.apiKey).Brief(ctx, req)
		if err != nil {
			return err
		}
		return writeJSON(w, resp)
	}

	engine, cleanup, err := localEngine(ctx, log, o, userID)
	if err != nil {
		return err
	}
	defer cleanup()

	if o.explain {
		resp, analysis := engine.Explain(ctx, userID, engine.Period(req))
		return writeJSON(w, struct {
			Response *brief.Response `json:"response"`
			Analysis *brief.Analysis `json:"analysis,omitempty"`
		}{resp, analysis})
	}

	if o.cacheDir != "" {
		store, err := cache.OpenSQLiteStore(o.cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
		svc := cache.NewService(engine, store, 24*time.Hour, cliMetrics(), log)
		return writeJSON(w, svc.Brief(ctx, req))
	}

	return writeJSON(w, engine.Generate(ctx, req))
}

// localEngine builds an engine over either a replayed workout log or the
// configured database.
func localEngine(ctx context.Context, log *slog.Logger, o showOptions, userID uuid.UUID) (*brief.Engine, func(), error) {
	m := cliMetrics()

	if o.logFile != "" {
		store, err := logStore(o.logFile, userID, o.rotation, o.goal)
		if err != nil {
			return nil, nil, err
		}
		return brief.NewEngine(store, nil, brief.Config{}, m, log), func() {}, nil
	}

	cfg, err := config.Load(o.config)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Brief.Location()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	engine := brief.NewEngine(db, nil, brief.Config{
		WindowSessions: cfg.Brief.WindowSessions,
		QueryTimeout:   cfg.Brief.QueryTimeout,
		Location:       loc,
	}, m, log)
	return engine, db.Close, nil
}

// logStore loads a workout log into an in-memory store for userID. The user
// is given a placeholder onboarded profile so the brief is computed from the
// log alone.
func logStore(path string, userID uuid.UUID, rotation string, goal int) (*fixture.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	sessions, err := fixture.ParseLog(f, userID)
	if err != nil {
		return nil, fmt.Errorf("parse log %s: %w", path, err)
	}

	height, weight, g := 180.0, 80.0, "build muscle"
	store := fixture.New()
	store.SetProfile(models.Profile{UserID: userID, HeightCM: &height, WeightKG: &weight, Goal: &g})
	store.SetSettings(userID, models.TrainingSettings{
		Rotation:   models.RotationSpec{Days: splitRotation(rotation)},
		WeeklyGoal: models.WeeklyGoal{DaysPerWeek: goal},
	})
	store.AddSessions(sessions...)
	return store, nil
}

func splitRotation(s string) []string {
	var days []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return days
}

func parseUser(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, errors.New("invalid --user: nil UUID")
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// cliMetrics records into a private registry; a one-shot command has nothing
// to scrape it.
func cliMetrics() *metrics.Manager {
	return metrics.NewManager(metrics.Namespace, metrics.Subsystem, prometheus.NewRegistry())
}
