package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/cache"
	"github.com/nhanzalone1/netgains/internal/coach"
	"github.com/nhanzalone1/netgains/internal/config"
	briefmcp "github.com/nhanzalone1/netgains/internal/mcp"
	"github.com/nhanzalone1/netgains/internal/metrics"
	"github.com/nhanzalone1/netgains/internal/server"
	"github.com/nhanzalone1/netgains/internal/storage"
	"github.com/nhanzalone1/netgains/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("migrations", "migrations", "path to the migrations directory")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("NetGains starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, *migrationsPath); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx := context.Background()

	tp, err := telemetry.Initialize(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	reg := metrics.SetupPrometheus(db.Collector(cfg.Database.Name))
	m := metrics.NewManager(metrics.Namespace, metrics.Subsystem, reg)

	loc, err := cfg.Brief.Location()
	if err != nil {
		log.Error("invalid default timezone", "error", err)
		os.Exit(1)
	}

	var gen brief.Generator
	if cfg.Coach.Enabled {
		gen = coach.NewClient(coach.Config{
			BaseURL:   cfg.Coach.BaseURL,
			APIKey:    cfg.Coach.APIKey,
			Model:     cfg.Coach.Model,
			MaxFocus:  cfg.Coach.MaxFocusLen,
			MaxTarget: cfg.Coach.MaxTargetLen,
			Timeout:   cfg.Coach.Timeout,
		})
		log.Info("coach enrichment enabled", "model", cfg.Coach.Model)
	}

	engine := brief.NewEngine(db, gen, brief.Config{
		WindowSessions: cfg.Brief.WindowSessions,
		QueryTimeout:   cfg.Brief.QueryTimeout,
		EnrichTimeout:  cfg.Coach.Timeout,
		MaxFocusLen:    cfg.Coach.MaxFocusLen,
		MaxTargetLen:   cfg.Coach.MaxTargetLen,
		Location:       loc,
	}, m, log)

	store, closeStore, err := openCache(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open brief cache", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	svc := cache.NewService(engine, store, cfg.Cache.TTL, m, log)

	opts := server.Options{
		APIKey:  cfg.Auth.APIKey,
		DevUser: cfg.Auth.DevUserID(),
		Users:   db,
		Health:  db,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	srv := server.New(svc, opts, log)
	srv.SetMCP(briefmcp.New(briefmcp.ServiceSource{Service: svc}, Version, log))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "plain http")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openCache builds the configured brief cache backend. A Redis server that
// does not answer at startup is logged, not fatal: the service treats cache
// errors as misses.
func openCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err)
		} else {
			log.Info("redis connected", "addr", cfg.Redis.Addr)
		}
		return cache.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case config.BackendSQLite:
		s, err := cache.OpenSQLiteStore(cfg.Cache.SQLiteDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return cache.NewMemoryStore(), func() {}, nil
	}
}
