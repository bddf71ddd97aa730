package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: https://feedback.example.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://feedback.example.com", cfg.API.BaseURL)
	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, StoreFile, cfg.Store.Mode)
	assert.NotEmpty(t, cfg.Store.Dir)
}

func TestLoad_PostgresMode(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://feedback.example.com
store:
  mode: postgres
  dsn: postgres://fc:fc@localhost/fc?sslmode=disable
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Mode)
	assert.Contains(t, cfg.Store.DSN, "postgres://")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "api: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"file mode without dir", func(c *Config) { c.Store.Dir = "" }, true},
		{"postgres mode without dsn", func(c *Config) { c.Store.Mode = StorePostgres }, true},
		{"unknown mode", func(c *Config) { c.Store.Mode = "redis" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
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
