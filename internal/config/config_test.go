package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.RESTPort)
	require.Equal(t, "8081", cfg.WSPort)
	require.Equal(t, 24*time.Hour, cfg.ChartCacheTTL)
	require.Equal(t, 1200, cfg.ChartWidth)
	require.Equal(t, 1100, cfg.ChartHeight)
	require.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REST_PORT", "9000")
	t.Setenv("DATABASE_DSN", "postgres://example")
	t.Setenv("CHART_CACHE_TTL", "90s")
	t.Setenv("CHART_WIDTH", "600")
	t.Setenv("CURRENT_SEASON", "2015-16")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.RESTPort)
	require.Equal(t, "postgres://example", cfg.DatabaseDSN)
	require.Equal(t, 90*time.Second, cfg.ChartCacheTTL)
	require.Equal(t, 600, cfg.ChartWidth)
	require.Equal(t, "2015-16", cfg.CurrentSeason)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BBREF_BASE=http://bbref.test\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BBREF_BASE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://bbref.test", cfg.BBRefBase)
}

func TestLoadRejectsBadSize(t *testing.T) {
	t.Setenv("CHART_HEIGHT", "0")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestLoadRefreshSettings(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.RefreshHour)
	require.True(t, cfg.EnableRefresh)

	t.Setenv("ENABLE_DAILY_REFRESH", "false")
	t.Setenv("REFRESH_HOUR", "5")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, 5, cfg.RefreshHour)
	require.False(t, cfg.EnableRefresh)

	t.Setenv("REFRESH_HOUR", "24")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
