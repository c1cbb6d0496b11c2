package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Brief     BriefConfig     `yaml:"brief"`
	Coach     CoachConfig     `yaml:"coach"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     RedisConfig     `yaml:"redis"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
	// DevUser makes every request run as this user ID. Local development only.
	DevUser string `yaml:"dev_user"`
}

type BriefConfig struct {
	WindowSessions  int           `yaml:"window_sessions"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
	DefaultTimezone string        `yaml:"default_timezone"`
}

type CoachConfig struct {
	Enabled      bool          `yaml:"enabled"`
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxFocusLen  int           `yaml:"max_focus_len"`
	MaxTargetLen int           `yaml:"max_target_len"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend"`
	TTL       time.Duration `yaml:"ttl"`
	SQLiteDir string        `yaml:"sqlite_dir"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Default returns the configuration used for any field the file leaves unset.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, SSLMode: "disable"},
		Brief: BriefConfig{
			WindowSessions:  14,
			QueryTimeout:    3 * time.Second,
			DefaultTimezone: "UTC",
		},
		Coach: CoachConfig{
			BaseURL:      "https://openrouter.ai/api/v1",
			Timeout:      2 * time.Second,
			MaxFocusLen:  40,
			MaxTargetLen: 120,
		},
		Cache:     CacheConfig{Backend: BackendMemory, TTL: 24 * time.Hour},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Tailscale: TailscaleConfig{Hostname: "netgains", StateDir: "tsnet-state"},
		Telemetry: TelemetryConfig{ServiceName: "netgains"},
		Metrics:   MetricsConfig{Enabled: true},
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Location returns the zone used when a request names none.
func (b BriefConfig) Location() (*time.Location, error) {
	if b.DefaultTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.DefaultTimezone)
}

// DevUserID returns the parsed dev user, or uuid.Nil when unset.
func (a AuthConfig) DevUserID() uuid.UUID {
	id, err := uuid.Parse(a.DevUser)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Load reads config from a YAML file, then a .env file (current directory
// or next to the config), then applies environment variable overrides.
// Env vars use the prefix NETGAINS_ and underscore-separated paths:
//
//	NETGAINS_SERVER_HOST, NETGAINS_SERVER_PORT,
//	NETGAINS_DB_HOST, NETGAINS_DB_PORT, NETGAINS_DB_NAME,
//	NETGAINS_DB_USER, NETGAINS_DB_PASSWORD, NETGAINS_DB_SSLMODE,
//	NETGAINS_AUTH_API_KEY, NETGAINS_AUTH_DEV_USER,
//	NETGAINS_BRIEF_TIMEZONE,
//	NETGAINS_COACH_ENABLED, NETGAINS_COACH_API_KEY, NETGAINS_COACH_MODEL,
//	NETGAINS_CACHE_BACKEND, NETGAINS_REDIS_ADDR, NETGAINS_REDIS_PASSWORD,
//	NETGAINS_TAILSCALE_ENABLED,
//	NETGAINS_TELEMETRY_ENABLED, NETGAINS_TELEMETRY_ENDPOINT
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := loadDotEnv(filepath.Dir(path)); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env files without overriding variables already set.
// Missing files are not an error.
func loadDotEnv(configDir string) error {
	candidates := []string{".env"}
	if configDir != "." && configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, ".env"))
	}
	for _, f := range candidates {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("NETGAINS_SERVER_HOST", &cfg.Server.Host)
	setInt("NETGAINS_SERVER_PORT", &cfg.Server.Port)
	setString("NETGAINS_DB_HOST", &cfg.Database.Host)
	setInt("NETGAINS_DB_PORT", &cfg.Database.Port)
	setString("NETGAINS_DB_NAME", &cfg.Database.Name)
	setString("NETGAINS_DB_USER", &cfg.Database.User)
	setString("NETGAINS_DB_PASSWORD", &cfg.Database.Password)
	setString("NETGAINS_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("NETGAINS_AUTH_API_KEY", &cfg.Auth.APIKey)
	setString("NETGAINS_AUTH_DEV_USER", &cfg.Auth.DevUser)
	setString("NETGAINS_BRIEF_TIMEZONE", &cfg.Brief.DefaultTimezone)
	setBool("NETGAINS_COACH_ENABLED", &cfg.Coach.Enabled)
	setString("NETGAINS_COACH_API_KEY", &cfg.Coach.APIKey)
	setString("NETGAINS_COACH_MODEL", &cfg.Coach.Model)
	setString("NETGAINS_CACHE_BACKEND", &cfg.Cache.Backend)
	setString("NETGAINS_REDIS_ADDR", &cfg.Redis.Addr)
	setString("NETGAINS_REDIS_PASSWORD", &cfg.Redis.Password)
	setBool("NETGAINS_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	setBool("NETGAINS_TELEMETRY_ENABLED", &cfg.Telemetry.Enabled)
	setString("NETGAINS_TELEMETRY_ENDPOINT", &cfg.Telemetry.Endpoint)
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" && !c.Tailscale.Enabled {
		return fmt.Errorf("auth.api_key is required unless tailscale is enabled")
	}
	if c.Auth.DevUser != "" && c.Auth.DevUserID() == uuid.Nil {
		return fmt.Errorf("auth.dev_user must be a UUID, got %q", c.Auth.DevUser)
	}
	if c.Brief.WindowSessions <= 0 {
		return fmt.Errorf("brief.window_sessions must be positive")
	}
	if _, err := c.Brief.Location(); err != nil {
		return fmt.Errorf("brief.default_timezone: %w", err)
	}
	if c.Coach.Enabled && (c.Coach.APIKey == "" || c.Coach.Model == "") {
		return fmt.Errorf("coach.api_key and coach.model are required when coach is enabled")
	}
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis cache backend")
		}
	case BackendSQLite:
		if c.Cache.SQLiteDir == "" {
			return fmt.Errorf("cache.sqlite_dir is required for the sqlite cache backend")
		}
	default:
		return fmt.Errorf("cache.backend must be memory, redis or sqlite, got %q", c.Cache.Backend)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}
	return nil
}
