package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // zone database for TIMEZONE on slim images
)

// Config holds the runtime settings of the complaints viewer.
type Config struct {
	Port string

	// Store
	StoreDriver    string // "postgres" or "memory"
	DatabaseURL    string
	RedisURL       string
	ComplaintsPath string
	CounterPath    string

	// Display
	TimeZone string

	// Caching and live viewers
	ViewCacheTTL      time.Duration
	ViewerTokenSecret string
	ViewerTokenTTL    time.Duration

	UpdateRatePerMin int

	SentryDSN string
	LogLevel  string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		StoreDriver:    getEnv("STORE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=user password=password dbname=gnacomplaints port=5432 sslmode=disable"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6380/0"),
		ComplaintsPath: getEnv("COMPLAINTS_PATH", "gna-complaints"),
		CounterPath:    getEnv("COUNTER_PATH", "gna-counter"),

		TimeZone: getEnv("TIMEZONE", "Asia/Kolkata"),

		ViewCacheTTL:      parseDuration(getEnv("VIEW_CACHE_TTL", "30s"), 30*time.Second),
		ViewerTokenSecret: getEnv("VIEWER_TOKEN_SECRET", ""),
		ViewerTokenTTL:    parseDuration(getEnv("VIEWER_TOKEN_TTL", "12h"), 12*time.Hour),

		UpdateRatePerMin: parseInt(getEnv("UPDATE_RATE_PER_MIN", "30"), 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
