package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mrportal/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_ROOT", "LOG_LEVEL", "DB_DRIVER", "DB_PATH", "DATABASE_URL",
		"JWT_SECRET", "JWT_EXPIRATION_HOURS", "HOST", "PORT", "GIN_MODE",
		"ENABLE_CORS", "CORS_ORIGINS", "SHEETS_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.True(t, filepath.IsAbs(cfg.Database.Path))
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiration)
	assert.Equal(t, 30*time.Second, cfg.Sheets.Timeout)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/mr")
	t.Setenv("ENABLE_CORS", "yes")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SHEETS_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenExpiration)
	assert.Equal(t, 5*time.Second, cfg.Sheets.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production without secret", map[string]string{"APP_ENV": "production"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}},
		{"non positive expiration", map[string]string{"JWT_EXPIRATION_HOURS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadReportConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadReportConfig(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	_, err = LoadReportConfig(broken)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	valid := filepath.Join(dir, "report_config.json")
	content := `{
		"default_years": [2024, 2025],
		"spreadsheets": [{"regional": "CE", "spreadsheet_id": "abc", "sheet_name": "Base"}],
		"status_config": {"main_statuses": [{"sheet_value": "Concluído"}]}
	}`
	require.NoError(t, os.WriteFile(valid, []byte(content), 0o644))

	cfg, err := LoadReportConfig(valid)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, cfg.YearsOrDefault(nil))
	sheet, ok := cfg.SheetFor("ce")
	require.True(t, ok)
	assert.Equal(t, "abc", sheet.SpreadsheetID)
	assert.Equal(t, "Outros", cfg.StatusConfig.GroupName())
}
