package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Match sources
const (
	SourceUpstream = "upstream"
	SourceArchive  = "archive"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Storage URLs
	ClickHouseURL string
	RedisURL      string

	// Match history
	MatchSource      string
	UpstreamURL      string
	UpstreamRPS      float64
	UpstreamBurst    int
	HistoryDepth     int
	FetchConcurrency int

	// Analysis
	DefaultWindow int
	CacheTTL      time.Duration

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Live snapshots
	RefreshInterval time.Duration
	WatchLeagues    []string
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		MatchSource:      strings.ToLower(getEnv("MATCH_SOURCE", SourceArchive)),
		UpstreamURL:      strings.TrimRight(getEnv("UPSTREAM_URL", ""), "/"),
		UpstreamRPS:      getEnvFloat("UPSTREAM_RPS", 5),
		UpstreamBurst:    getEnvInt("UPSTREAM_BURST", 10),
		HistoryDepth:     getEnvInt("HISTORY_DEPTH", 200),
		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 4),

		DefaultWindow: getEnvInt("DEFAULT_WINDOW", 10),
		CacheTTL:      getEnvDuration("CACHE_TTL", 2*time.Minute),

		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 10000),
		BatchSize:     getEnvInt("BATCH_SIZE", 500),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 1*time.Second),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 30*time.Second),
		WatchLeagues:    splitList(getEnv("WATCH_LEAGUES", "")),
	}

	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"))

	// Critical configuration - fail if missing
	var err error
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	switch cfg.MatchSource {
	case SourceArchive:
	case SourceUpstream:
		if cfg.UpstreamURL == "" {
			return nil, fmt.Errorf("MATCH_SOURCE=%s requires UPSTREAM_URL", SourceUpstream)
		}
	default:
		return nil, fmt.Errorf("invalid MATCH_SOURCE %q: want %s or %s", cfg.MatchSource, SourceUpstream, SourceArchive)
	}

	if cfg.DefaultWindow < 1 || cfg.DefaultWindow > 200 {
		return nil, fmt.Errorf("DEFAULT_WINDOW must be within 1..200, got %d", cfg.DefaultWindow)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
