// Package config loads the startup configuration: API base URLs, third-party
// keys, and local storage settings. Sources, lowest to highest precedence:
// built-in defaults, an optional TOML config file, a .env file, and process
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the resolved startup configuration.
type Config struct {
	APIBaseURL   string
	AuthBaseURL  string
	MapsAPIKey   string
	TelemetryDSN string
	Environment  string
	StorePath    string
	StoreSecret  string
}

const (
	defaultConfigPath  = "~/.config/joga/config.toml"
	defaultStorePath   = "~/.config/joga/store.bin"
	defaultAPIBaseURL  = "https://api.joga.app/v1"
	defaultAuthBaseURL = "https://auth.joga.app/v1"
	defaultEnvironment = "production"
)

// fileConfig mirrors the TOML config file.
type fileConfig struct {
	APIBaseURL   string `toml:"api_base_url"`
	AuthBaseURL  string `toml:"auth_base_url"`
	MapsAPIKey   string `toml:"maps_api_key"`
	TelemetryDSN string `toml:"telemetry_dsn"`
	Environment  string `toml:"environment"`
	StorePath    string `toml:"store_path"`
	StoreSecret  string `toml:"store_secret"`
}

// Load resolves the configuration. path overrides the default config file
// location; a missing file is not an error.
func Load(path string) (Config, error) {
	// .env values become process env vars and share their precedence.
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:  defaultAPIBaseURL,
		AuthBaseURL: defaultAuthBaseURL,
		Environment: defaultEnvironment,
		StorePath:   defaultStorePath,
	}

	if err := applyFile(&cfg, path); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	expanded, err := expandPath(cfg.StorePath)
	if err != nil {
		return Config{}, errors.Wrap(err, "[config.Load] resolve store path")
	}
	cfg.StorePath = expanded

	if cfg.StoreSecret == "" {
		return Config{}, errors.New("[config.Load] JOGA_STORE_SECRET (or store_secret) is required")
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	if path == "" {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return errors.Wrap(err, "[config.applyFile] resolve config path")
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "[config.applyFile] read config file")
	}

	var file fileConfig
	if err := toml.Unmarshal(raw, &file); err != nil {
		return errors.Wrap(err, "[config.applyFile] parse config file")
	}

	setIfPresent(&cfg.APIBaseURL, file.APIBaseURL)
	setIfPresent(&cfg.AuthBaseURL, file.AuthBaseURL)
	setIfPresent(&cfg.MapsAPIKey, file.MapsAPIKey)
	setIfPresent(&cfg.TelemetryDSN, file.TelemetryDSN)
	setIfPresent(&cfg.Environment, file.Environment)
	setIfPresent(&cfg.StorePath, file.StorePath)
	setIfPresent(&cfg.StoreSecret, file.StoreSecret)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.APIBaseURL = GetEnv("JOGA_API_BASE_URL", cfg.APIBaseURL)
	cfg.AuthBaseURL = GetEnv("JOGA_AUTH_BASE_URL", cfg.AuthBaseURL)
	cfg.MapsAPIKey = GetEnv("JOGA_MAPS_API_KEY", cfg.MapsAPIKey)
	cfg.TelemetryDSN = GetEnv("JOGA_TELEMETRY_DSN", cfg.TelemetryDSN)
	cfg.Environment = GetEnv("JOGA_ENV", cfg.Environment)
	cfg.StorePath = GetEnv("JOGA_STORE_PATH", cfg.StorePath)
	cfg.StoreSecret = GetEnv("JOGA_STORE_SECRET", cfg.StoreSecret)
}

// GetEnv returns the value of envVar, or defaultValue when unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func setIfPresent(dest *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dest = value
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
