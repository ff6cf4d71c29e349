package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "PLAN_WEEKS", "PLAN_CACHE_TTL", "TOPICS_FILE", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	require.Equal(t, ModeOffline, cfg.Mode)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, 5, cfg.PlanWeeks)
	require.Equal(t, 30*time.Minute, cfg.PlanCacheTTL)
	require.Empty(t, cfg.TopicsFile)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:3010"}, cfg.CORSOrigins())
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("PLAN_WEEKS", "8")
	t.Setenv("PLAN_CACHE_TTL", "90s")
	t.Setenv("ENABLE_LOCAL_AUTH", "no")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")

	cfg := FromEnv()

	require.Equal(t, ModeOnline, cfg.Mode)
	require.Equal(t, 8, cfg.PlanWeeks)
	require.Equal(t, 90*time.Second, cfg.PlanCacheTTL)
	require.False(t, cfg.EnableLocalAuth)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Setenv("PLAN_WEEKS", "0")
	require.Error(t, FromEnv().Validate())

	t.Setenv("PLAN_WEEKS", "")
	t.Setenv("MODE", "online")
	t.Setenv("AUTH_HMAC_SECRET", "")
	require.Error(t, FromEnv().Validate())
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Setenv("TOPICS_FILE", "")
	t.Setenv("LOG_FORMAT", "text")
	os.Unsetenv("TOPICS_FILE")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TOPICS_FILE=topics.yaml\nLOG_FORMAT=json\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "topics.yaml", cfg.TopicsFile)
	require.Equal(t, "text", cfg.LogFormat, "existing environment wins over .env")

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
