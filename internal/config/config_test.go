package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	os.Setenv("MODE", "test")
	os.Setenv("BROWSER_REMOTE_URL", "http://selenium:4444")
	os.Setenv("BROWSER_TYPE", "firefox")
	os.Setenv("LOG_LEVEL", "DEBUG")
	os.Setenv("DB_CONNECTION_STRING", "./override.db")
	os.Setenv("API_ADDRESS", ":9999")
	defer func() {
		os.Unsetenv("MODE")
		os.Unsetenv("BROWSER_REMOTE_URL")
		os.Unsetenv("BROWSER_TYPE")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("DB_CONNECTION_STRING")
		os.Unsetenv("API_ADDRESS")
	}()

	cfg := Get()

	assert.Equal(t, "http://selenium:4444", cfg.Browser.RemoteURL)
	assert.Equal(t, "firefox", cfg.Browser.Type)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, "./override.db", cfg.DB.ConnectionString)
	assert.Equal(t, ":9999", cfg.API.Address)
}

func Test_MonitoringConfig_DefaultsAreApplied(t *testing.T) {
	cfg := MonitoringConfig{}
	cfg.applyDefaults()

	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 10*time.Minute, cfg.ErrorRetryInterval)
	assert.NotEmpty(t, cfg.StateDir)
}

func Test_UserConfig_Validation(t *testing.T) {
	valid := UserConfig{
		Email:     "user@example.com",
		Password:  "secret",
		Location:  "Toronto",
		StartDate: "2026-09-01",
		EndDate:   "2026-12-31",
	}
	assert.NoError(t, valid.validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, badEmail.validate())

	badDates := valid
	badDates.StartDate = "2026-12-31"
	badDates.EndDate = "2026-09-01"
	assert.Error(t, badDates.validate())

	badLayout := valid
	badLayout.StartDate = "01.09.2026"
	assert.Error(t, badLayout.validate())
}

func Test_UserConfig_ToSpecParsesDates(t *testing.T) {
	cfg := UserConfig{
		Email:           "user@example.com",
		Password:        "secret",
		Location:        "Toronto",
		StartDate:       "2026-09-01",
		EndDate:         "2026-12-31",
		PreferredCities: []string{"Toronto", "Ottawa"},
		AutoBook:        true,
	}

	spec := cfg.ToSpec()
	require.False(t, spec.StartDate.IsZero())
	assert.Equal(t, 2026, spec.StartDate.Year())
	assert.Equal(t, time.December, spec.EndDate.Month())
	assert.Equal(t, []string{"Toronto", "Ottawa"}, spec.PreferredCities)
	assert.True(t, spec.AutoBook)
}

func Test_BrowserConfig_RejectsUnknownType(t *testing.T) {
	cfg := BrowserConfig{RemoteURL: "http://localhost:4444", Type: "safari"}
	assert.Error(t, cfg.validate())
}

func Test_Config_Validate_AggregatesSectionErrors(t *testing.T) {
	err := Config{}.validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple errors occurred")
	assert.Contains(t, err.Error(), "DBConfig")
	assert.Contains(t, err.Error(), "LoggerConfig")
}
