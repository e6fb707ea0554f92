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
	t.Setenv("BACKEND_BASE_URL", "http://backend.local/api")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "UTC", cfg.Locale.Timezone)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.ExportSchedule)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "BACKEND_BASE_URL=http://from-file\nBACKEND_TIMEOUT=2500\nTIMEZONE=America/Lima\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("BACKEND_BASE_URL")
		os.Unsetenv("BACKEND_TIMEOUT")
		os.Unsetenv("TIMEZONE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file", cfg.Backend.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Backend.Timeout)
	loc, err := cfg.Locale.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Lima", loc.String())
}

func TestLoad_RequiresBackend(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.EqualError(t, err, "BACKEND_BASE_URL must be provided")
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Backend:   BackendConfig{BaseURL: "http://x", Timeout: time.Second},
			Locale:    LocaleConfig{Timezone: "UTC"},
			Reporting: ReportingConfig{ExportSchedule: "@daily", DigestSchedule: "@daily"},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Locale.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Sheets.SpreadsheetID = "sheet-only"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Backend.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Reporting.ExportSchedule = "every friday"
	assert.ErrorContains(t, cfg.Validate(), "REPORT_CRON_SCHEDULE is invalid")

	cfg = base()
	cfg.Reporting.DigestSchedule = "0 25 * * *"
	assert.ErrorContains(t, cfg.Validate(), "ALERT_DIGEST_CRON_SCHEDULE is invalid")

	var nilCfg *Config
	assert.EqualError(t, nilCfg.Validate(), "config is nil")
}

func TestBadDuration(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://x")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
