package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5, cfg.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.RateLimit.RefillInterval)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CARADVISOR_SERVER_ADDR", ":9090")
	t.Setenv("CARADVISOR_RATE_LIMIT_CAPACITY", "20")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.RateLimit.Capacity)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  addr: ":7070"
policy:
  verdict_stress_gap: 10
  income_shock_percent: 20
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 10.0, cfg.Policy.VerdictStressGap)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
rate_limit:
  capacity: 0
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDecisionPolicy_MergesOverrides(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	pol := cfg.DecisionPolicy()
	assert.Equal(t, 8.0, pol.VerdictStressGap)
	assert.Equal(t, 15.0, pol.HighConfidenceGap)
	assert.Equal(t, 10.0, pol.IncomeShockPercent)
	assert.Equal(t, 12, pol.MaxRiskFlags)

	cfg.Policy.VerdictStressGap = 10
	cfg.Policy.MaxRiskFlags = 6
	pol = cfg.DecisionPolicy()
	assert.Equal(t, 10.0, pol.VerdictStressGap)
	assert.Equal(t, 6, pol.MaxRiskFlags)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 15.0, pol.HighConfidenceGap)
}
