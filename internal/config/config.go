package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Matching MatchingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret string
}

type MatchingConfig struct {
	// SlotGridMinutes is the slot bucket width; it must divide a day evenly.
	SlotGridMinutes int
	// MinPartialOverlap is the shared-tool minimum under the partial policy.
	MinPartialOverlap int
	// CommitRetries bounds re-selection after a lost pairing race.
	CommitRetries int
	// DefaultStrictness is the policy used by join-triggered and sweep
	// match attempts: any, partial or exact.
	DefaultStrictness string
	// SweepInterval is the period of the expiry/re-match background task.
	SweepInterval time.Duration
	// JoinRatePerSecond and JoinBurst feed the per-IP limiter on joins.
	JoinRatePerSecond float64
	JoinBurst         int

	Professions []string
	Languages   []string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

const (
	defaultProfessions = "frontend,backend,fullstack,mobile,devops,data,qa"
	defaultLanguages   = "en,ru,es,de,fr,pt,zh,hi"
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "mockmate"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:      optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        int32(optInt("DB_POOL_MAX_CONNS", 8)),
		PoolMinConns:        int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime: optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 30*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret: req("JWT_ACCESS_SECRET"),
	}

	cfg.Matching = MatchingConfig{
		SlotGridMinutes:   optInt("SLOT_GRID_MINUTES", 30),
		MinPartialOverlap: optInt("MATCH_MIN_PARTIAL_OVERLAP", 2),
		CommitRetries:     optInt("MATCH_COMMIT_RETRIES", 3),
		DefaultStrictness: strings.ToLower(opt("MATCH_DEFAULT_STRICTNESS", "any")),
		SweepInterval:     optDuration("MATCH_SWEEP_INTERVAL", time.Minute),
		JoinRatePerSecond: optFloat("JOIN_RATE_PER_SECOND", 2),
		JoinBurst:         optInt("JOIN_RATE_BURST", 5),
		Professions:       splitTags(opt("MATCH_PROFESSIONS", defaultProfessions)),
		Languages:         splitTags(opt("MATCH_LANGUAGES", defaultLanguages)),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.Matching.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (m MatchingConfig) validate() error {
	if m.SlotGridMinutes <= 0 || (24*60)%m.SlotGridMinutes != 0 {
		return fmt.Errorf("SLOT_GRID_MINUTES must divide a day evenly, got %d", m.SlotGridMinutes)
	}
	if m.MinPartialOverlap < 1 {
		return fmt.Errorf("MATCH_MIN_PARTIAL_OVERLAP must be >= 1, got %d", m.MinPartialOverlap)
	}
	if m.CommitRetries < 1 {
		return fmt.Errorf("MATCH_COMMIT_RETRIES must be >= 1, got %d", m.CommitRetries)
	}
	switch m.DefaultStrictness {
	case "any", "partial", "exact":
	default:
		return fmt.Errorf("MATCH_DEFAULT_STRICTNESS must be any, partial or exact, got %q", m.DefaultStrictness)
	}
	if len(m.Professions) == 0 {
		return errors.New("MATCH_PROFESSIONS must not be empty")
	}
	if len(m.Languages) == 0 {
		return errors.New("MATCH_LANGUAGES must not be empty")
	}
	return nil
}

func optInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func optFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func optDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
