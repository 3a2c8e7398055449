package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 1e-4, cfg.Solver.Tolerance)
	assert.Equal(t, 2000, cfg.Solver.MaxIterations)
	assert.Equal(t, 0.5, cfg.Solver.RateCeiling)
	assert.Equal(t, 360, cfg.Solver.TenureCeiling)
	assert.Equal(t, 600, cfg.Limits.MaxTenureMonths)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "engine.toml", `
[server]
addr = ":9090"
read_timeout = "5s"

[redis]
enabled = true
addr = "cache:6379"
ttl = "1m"

[solver]
tolerance = 0.001
tenure_ceiling = 480
`)
	t.Setenv("LOAN_ENGINE_ADDR", "")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout.Duration)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.TTL.Duration)
	assert.Equal(t, 0.001, cfg.Solver.Tolerance)
	assert.Equal(t, 480, cfg.Solver.TenureCeiling)
	assert.Equal(t, 2000, cfg.Solver.MaxIterations)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "engine.yaml", `
log:
  level: debug
  format: console
rate_limit:
  capacity: 10
  window: 30s
limits:
  max_tenure_months: 360
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 10, cfg.RateLimit.Capacity)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window.Duration)
	assert.Equal(t, 360, cfg.Limits.MaxTenureMonths)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "engine.toml", "[server]\naddr = \":9090\"\n")
	t.Setenv("LOAN_ENGINE_ADDR", "127.0.0.1:7000")
	t.Setenv("LOAN_ENGINE_REDIS_ADDR", "redis:6379")
	t.Setenv("LOAN_ENGINE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnv_Port(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(func(key string) string {
		if key == "PORT" {
			return "3000"
		}
		return ""
	})
	assert.Equal(t, ":3000", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "engine.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "engine.toml", "[server\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "engine.yaml", "solver:\n  max_iterations: -1\n"))
	assert.ErrorContains(t, err, "solver settings")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
