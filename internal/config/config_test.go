package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesTemplatesOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TRADING_DIARY_DB", "")
	t.Setenv("TRADING_DIARY_MODEL", "")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created template")

	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr)

	// Next run finds the config template and bootstraps the credentials file
	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created template")

	info, statErr := os.Stat(filepath.Join(dir, "credentials.toml"))
	require.NoError(t, statErr)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Third run succeeds with the generated templates
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Coach.Model)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFiles(t, dir, "", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TRADING_DIARY_DB", "")
	t.Setenv("TRADING_DIARY_MODEL", "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Coach.Model)
	assert.InDelta(t, 0.7, cfg.Coach.Temperature, 1e-9)
	assert.Equal(t, 2048, cfg.Coach.MaxTokens)
	assert.Equal(t, "INR", cfg.UI.Currency)
	assert.True(t, cfg.UI.ColorEnabled)
	assert.Equal(t, filepath.Join(dir, "diary.db"), cfg.Database.Path)
	assert.False(t, cfg.HasCoachKey())
}

func TestLoadReadsValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TRADING_DIARY_DB", "")
	t.Setenv("TRADING_DIARY_MODEL", "")
	writeConfigFiles(t, dir, `
[database]
path = "/tmp/custom.db"

[coach]
model = "gpt-4o-mini"
temperature = 0.2
`, `
[openai]
api_key = "sk-test"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, "gpt-4o-mini", cfg.Coach.Model)
	assert.InDelta(t, 0.2, cfg.Coach.Temperature, 1e-9)
	assert.True(t, cfg.HasCoachKey())
	assert.Equal(t, "sk-test", cfg.Credentials.OpenAI.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfigFiles(t, dir, "", "")

	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("TRADING_DIARY_DB", "/tmp/env.db")
	t.Setenv("TRADING_DIARY_MODEL", "gpt-4.1")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Credentials.OpenAI.APIKey)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, "gpt-4.1", cfg.Coach.Model)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"temperature too high", func(c *Config) { c.Coach.Temperature = 2.5 }, true},
		{"temperature negative", func(c *Config) { c.Coach.Temperature = -0.1 }, true},
		{"temperature at bounds", func(c *Config) { c.Coach.Temperature = 2.0 }, false},
		{"negative max tokens", func(c *Config) { c.Coach.MaxTokens = -1 }, true},
		{"negative retries", func(c *Config) { c.Coach.MaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func writeConfigFiles(t *testing.T, dir, configTOML, credentialsTOML string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(configTOML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte(credentialsTOML), 0600))
}
