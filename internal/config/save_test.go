package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestWriteDefaultConfig_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".kit", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	cfg := readConfig(t, configPath)
	defaults := Defaults()

	// Paths are commented out in the template and resolved at runtime.
	defaults.Backend.DBPath = ""
	defaults.Session.TokenPath = ""

	assert.Equal(t, defaults, cfg)
	require.NoError(t, Validate(cfg))
}

func TestSaveBackend_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SaveBackend(configPath, BackendConfig{Kind: BackendHTTP, BaseURL: "http://kit.internal:8787"})
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: http")
	assert.Contains(t, string(data), "base_url: http://kit.internal:8787")
	assert.NotContains(t, string(data), "db_path")
}

func TestSaveBackend_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my settings
auto_refresh: false
backend:
  kind: local
  db_path: /tmp/old.db
throttle:
  enabled: true # keep me
  rps: 2
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	err := SaveBackend(configPath, BackendConfig{Kind: BackendHTTP, BaseURL: "http://localhost:9999", Timeout: 3 * time.Second})
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# my settings")
	assert.Contains(t, content, "auto_refresh: false")
	assert.Contains(t, content, "# keep me")
	assert.NotContains(t, content, "/tmp/old.db")

	cfg := readConfig(t, configPath)
	assert.Equal(t, BackendHTTP, cfg.Backend.Kind)
	assert.Equal(t, "http://localhost:9999", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2.0, cfg.Throttle.RPS)
}

func TestSaveBackend_RejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	err := SaveBackend(configPath, BackendConfig{Kind: BackendHTTP})
	require.ErrorContains(t, err, "backend.base_url is required")

	_, statErr := os.Stat(configPath)
	require.True(t, os.IsNotExist(statErr), "nothing written on validation failure")
}

func TestSaveBackend_NonMappingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("- just\n- a list\n"), 0o600))

	err := SaveBackend(configPath, BackendConfig{Kind: BackendLocal})
	require.ErrorContains(t, err, "top level is not a mapping")
}
