// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies defaults, environment overrides, and validation

package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATAPIPELINE_API_URL", "")
	t.Setenv("DATAPIPELINE_TIMEOUT", "")
	t.Setenv("DATAPIPELINE_CAPTCHA", "")
	t.Setenv("DATAPIPELINE_CONFIG_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.RequestTimeout)
	}
	if cfg.CaptchaEnabled {
		t.Error("expected captcha disabled by default")
	}
	if !strings.HasSuffix(cfg.ConfigDir, "datapipeline") {
		t.Errorf("expected datapipeline config dir, got %q", cfg.ConfigDir)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATAPIPELINE_API_URL", "https://api.example.com")
	t.Setenv("DATAPIPELINE_TIMEOUT", "60")
	t.Setenv("DATAPIPELINE_CAPTCHA", "true")
	t.Setenv("DATAPIPELINE_CONFIG_DIR", "/tmp/dp-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("unexpected API URL %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 60 {
		t.Errorf("unexpected timeout %d", cfg.RequestTimeout)
	}
	if !cfg.CaptchaEnabled {
		t.Error("expected captcha enabled")
	}
	if cfg.ConfigDir != "/tmp/dp-test" {
		t.Errorf("unexpected config dir %q", cfg.ConfigDir)
	}
}

func TestLoad_AddsSchemeWhenMissing(t *testing.T) {
	t.Setenv("DATAPIPELINE_API_URL", "api.example.com:8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://api.example.com:8080" {
		t.Errorf("expected http scheme added, got %q", cfg.APIURL)
	}
}

func TestLoad_TimeoutOutOfRange(t *testing.T) {
	for _, v := range []string{"0", "601", "-5"} {
		t.Setenv("DATAPIPELINE_TIMEOUT", v)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for timeout %s", v)
		}
	}
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("DATAPIPELINE_TIMEOUT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected fallback to 30, got %d", cfg.RequestTimeout)
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"localhost:8080", "http://localhost:8080"},
		{"http://x", "http://x"},
		{"https://x", "https://x"},
	}
	for _, tt := range tests {
		if got := ensureScheme(tt.in); got != tt.want {
			t.Errorf("ensureScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultConfigDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != "/tmp/xdg/datapipeline" {
		t.Errorf("expected XDG path, got %q", got)
	}
}
