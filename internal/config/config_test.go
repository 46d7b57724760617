package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/batterydb/internal/ai"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BATTERYDB_DSN", "BATTERYDB_DATA_DIR", "BATTERYDB_REPORT_DIR", "BATTERYDB_HISTORY_FILE",
		"BATTERYDB_FEEDS_FILE", "LISTEN_ADDR", "ORACLE_PROVIDER", "ORACLE_MODEL", "ORACLE_TIMEOUT",
		"SCAN_INTERVAL", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"SMTP_SERVER", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "REPORT_TO_EMAIL", "REPORT_FROM_EMAIL",
		"REPORT_EMAIL_EMPTY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "batteries.db"), cfg.DSN)
	assert.Equal(t, "data", cfg.ReportDir)
	assert.Equal(t, filepath.Join("data", "scan_history.json"), cfg.HistoryFile)
	assert.Equal(t, filepath.Join("data", "feeds.yaml"), cfg.FeedsFile)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, ai.ProviderGemini, cfg.OracleProvider)
	assert.Equal(t, 2*time.Minute, cfg.OracleTimeout)
	assert.Zero(t, cfg.ScanInterval)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, filepath.Join("data", "brands_seed.csv"), cfg.BrandsSeedPath())
}

func TestLoadOverridesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("BATTERYDB_DATA_DIR", "/srv/env")
	t.Setenv("LISTEN_ADDR", ":9000")

	cfg, err := Load(Overrides{DataDir: "/srv/flag", ListenAddr: ":7000"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/flag", cfg.DataDir)
	assert.Equal(t, filepath.Join("/srv/flag", "batteries.db"), cfg.DSN)
	assert.Equal(t, ":7000", cfg.ListenAddr)
}

func TestOracleKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORACLE_PROVIDER", "anthropic")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	err = cfg.RequireOracleKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export ANTHROPIC_API_KEY=")

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	cfg, err = Load(Overrides{})
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireOracleKey())
}

func TestEmailEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_USER", "scan@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("REPORT_TO_EMAIL", "me@example.com")

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, "scan@example.com", cfg.Email.FromEmail)
}

func TestLoadInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORACLE_TIMEOUT", "soon")
	_, err := Load(Overrides{})
	assert.ErrorContains(t, err, "ORACLE_TIMEOUT")

	clearEnv(t)
	t.Setenv("ORACLE_PROVIDER", "llama")
	_, err = Load(Overrides{})
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SMTP_PORT", "smtp")
	_, err = Load(Overrides{})
	assert.ErrorContains(t, err, "SMTP_PORT")
}
