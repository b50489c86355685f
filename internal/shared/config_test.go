package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "rater", cfg.CacheNamespace)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.SeedWorkers)
	assert.True(t, cfg.MigrateOnStart)
	assert.Contains(t, cfg.MySQLDSN, "parseTime=true")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WRITE_RPS", "0.5")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.InDelta(t, 0.5, cfg.WriteRPS, 1e-9)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct{ key, val, msg string }{
		"bad int":    {"REDIS_DB", "two", "parse env"},
		"zero rps":   {"WRITE_RPS", "0", "WRITE_RPS"},
		"no workers": {"SEED_WORKERS", "0", "SEED_WORKERS"},
		"neg ttl":    {"CACHE_TTL_SECONDS", "-1", "CACHE_TTL_SECONDS"},
		"no timeout": {"REQUEST_TIMEOUT", "0s", "REQUEST_TIMEOUT"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
