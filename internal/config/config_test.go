package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://saavn.sumit.co", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.API.PageSize)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.Empty(t, cfg.Storage.DownloadDir)
	assert.False(t, cfg.Audio.UseMock)
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "api.base_url",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.API.PageSize = 0 },
			wantErr: "api.page_size",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.API.TimeoutSeconds = -1 },
			wantErr: "api.timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdir matches the behavior of testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadWithoutFile(t *testing.T) {
	// Run from a temp directory so no stray config.toml is picked up.
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	content := []byte("[api]\nbase_url = \"http://localhost:9090\"\npage_size = 5\n\n[audio]\nuse_mock = true\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.PageSize)
	assert.True(t, cfg.Audio.UseMock)
	// Unset keys keep their defaults.
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api]\npage_size = 0\n"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.page_size")
}
