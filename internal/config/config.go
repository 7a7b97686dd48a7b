package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	MetricsUsername       string `toml:"metrics_username"`

	// auth
	AuthIssuer     string   `toml:"auth_issuer"`
	AllowedOrigins []string `toml:"allowed_origins"`

	RateLimitAllowedPerMin int `toml:"rate_limit_allowed_per_min"`

	// statistics
	Timezone             string   `toml:"timezone"`
	StreakWindowDays     int      `toml:"streak_window_days"`
	TrackedExercises     []string `toml:"tracked_exercises"`
	StatsCacheSizeMB     int      `toml:"stats_cache_size_mb"`
	StatsCacheTTLSeconds int      `toml:"stats_cache_ttl_seconds"`

	// timed workout sessions
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config section for env,
// with defaults applied for the values left empty.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}

	cfg.setDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) setDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.StreakWindowDays == 0 {
		c.StreakWindowDays = 60
	}
	if len(c.TrackedExercises) == 0 {
		c.TrackedExercises = []string{"bench press", "squat", "deadlift"}
	}
	if c.StatsCacheSizeMB == 0 {
		c.StatsCacheSizeMB = 10
	}
	if c.StatsCacheTTLSeconds == 0 {
		c.StatsCacheTTLSeconds = 300
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = 6 * 60
	}
	if c.RateLimitAllowedPerMin == 0 {
		c.RateLimitAllowedPerMin = 120
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be set")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if c.StreakWindowDays < 1 {
		return errors.New("streak window must be at least one day")
	}
	return nil
}

// Location returns the time zone used to bucket workouts into calendar days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
