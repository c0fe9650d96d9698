package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JOGA_STORE_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, "https://api.joga.app/v1", cfg.APIBaseURL)
	require.Equal(t, "https://auth.joga.app/v1", cfg.AuthBaseURL)
	require.Equal(t, "production", cfg.Environment)
	require.True(t, filepath.IsAbs(cfg.StorePath))
}

func TestLoadRequiresStoreSecret(t *testing.T) {
	t.Setenv("JOGA_STORE_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "JOGA_STORE_SECRET")
}

func TestLoadReadsConfigFile(t *testing.T) {
	t.Setenv("JOGA_STORE_SECRET", "")
	path := writeConfigFile(t, `
api_base_url = "https://staging-api.joga.app/v1"
environment = "staging"
store_secret = "file-secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://staging-api.joga.app/v1", cfg.APIBaseURL)
	require.Equal(t, "staging", cfg.Environment)
	require.Equal(t, "file-secret", cfg.StoreSecret)
	// Unset file keys keep their defaults.
	require.Equal(t, "https://auth.joga.app/v1", cfg.AuthBaseURL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
api_base_url = "https://file-api.joga.app/v1"
store_secret = "file-secret"
`)
	t.Setenv("JOGA_API_BASE_URL", "https://env-api.joga.app/v1")
	t.Setenv("JOGA_STORE_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env-api.joga.app/v1", cfg.APIBaseURL)
	require.Equal(t, "env-secret", cfg.StoreSecret)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("JOGA_STORE_SECRET", "test-secret")
	path := writeConfigFile(t, "api_base_url = [not toml")

	_, err := Load(path)
	require.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("JOGA_TEST_VALUE", "set")
	require.Equal(t, "set", GetEnv("JOGA_TEST_VALUE", "fallback"))
	require.Equal(t, "fallback", GetEnv("JOGA_TEST_VALUE_UNSET", "fallback"))
}
