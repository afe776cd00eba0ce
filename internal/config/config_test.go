package config_test

import (
	"testing"
	"time"

	"gnacomplaints/backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("COMPLAINTS_PATH", "")
	t.Setenv("VIEW_CACHE_TTL", "")

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gna-complaints", cfg.ComplaintsPath)
	assert.Equal(t, 30*time.Second, cfg.ViewCacheTTL)
	assert.Equal(t, 30, cfg.UpdateRatePerMin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VIEW_CACHE_TTL", "2m")
	t.Setenv("UPDATE_RATE_PER_MIN", "notanumber")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 2*time.Minute, cfg.ViewCacheTTL)
	assert.Equal(t, 30, cfg.UpdateRatePerMin, "invalid numbers fall back to the default")
}

func TestLocation_UnknownZoneFallsBackToUTC(t *testing.T) {
	cfg := &config.Config{TimeZone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.TimeZone = "Asia/Kolkata"
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}
