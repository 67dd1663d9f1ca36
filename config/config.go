// ABOUTME: Configuration loader for the DataPipeline console
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://localhost:8080"

type Config struct {
	// API
	APIURL         string // base URL of the DataPipeline API
	RequestTimeout int    // seconds, per outbound request (default 30)

	// Login
	CaptchaEnabled bool // require the slider-captcha step before login

	// Local state
	ConfigDir string // where credentials are persisted
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("DATAPIPELINE_API_URL", defaultAPIURL)),
		RequestTimeout: getEnvInt("DATAPIPELINE_TIMEOUT", 30),
		CaptchaEnabled: getEnvBool("DATAPIPELINE_CAPTCHA", false),
		ConfigDir:      getEnv("DATAPIPELINE_CONFIG_DIR", DefaultConfigDir()),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 600 {
		return nil, fmt.Errorf("DATAPIPELINE_TIMEOUT must be between 1 and 600, got %d", cfg.RequestTimeout)
	}
	if cfg.ConfigDir == "" {
		return nil, fmt.Errorf("cannot determine config directory; set DATAPIPELINE_CONFIG_DIR")
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "datapipeline")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "datapipeline")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
