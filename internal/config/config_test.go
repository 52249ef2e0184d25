package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOST", "GRPC_ADDR", "ENVIRONMENT", "LOG_LEVEL", "SEED_FILE",
		"FASTAPIPORT", "METRICS_ENABLED", "CORS_ALLOWED_ORIGINS"} {
		k := k
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FASTAPIPORT", "9001")
	t.Setenv("GRPC_ADDR", "")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Empty(t, cfg.GRPCAddr)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\nlog_level: debug\nseed_file: seed.yaml\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)

	t.Run("non numeric port", func(t *testing.T) {
		t.Setenv("FASTAPIPORT", "http")
		_, err := Load("")
		assert.ErrorContains(t, err, "FASTAPIPORT")
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("FASTAPIPORT", "70000")
		_, err := Load("")
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "reading config file")
	})
}
