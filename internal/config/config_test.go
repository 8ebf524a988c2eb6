// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 8480 {
		t.Fatalf("port = %d, want 8480", cfg.Server.Port)
	}
	if cfg.Detection.DefaultTier != 2 {
		t.Fatalf("default tier = %d, want 2", cfg.Detection.DefaultTier)
	}
	if cfg.Ring.Window != 6*time.Hour {
		t.Fatalf("ring window = %v", cfg.Ring.Window)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9000
  environment: production
detection:
  default_tier: 4
  external_timeout: 10s
ring:
  in_memory: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Environment != "production" {
		t.Fatalf("environment = %q", cfg.Server.Environment)
	}
	if cfg.Detection.DefaultTier != 4 {
		t.Fatalf("default tier = %d, want 4", cfg.Detection.DefaultTier)
	}
	if cfg.Detection.ExternalTimeout != 10*time.Second {
		t.Fatalf("external timeout = %v", cfg.Detection.ExternalTimeout)
	}
	// Untouched sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SENTINEL_SERVER_PORT", "9100")
	t.Setenv("SENTINEL_LOGGING_LEVEL", "debug")
	t.Setenv("SENTINEL_EXTERNAL_AI_TEXT_BASE_URL", "https://ai.example.com")
	t.Setenv("SENTINEL_EXTERNAL_AI_TEXT_ENABLED", "true")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level = %q", cfg.Logging.Level)
	}
	if !cfg.External.AIText.Active() {
		t.Fatalf("ai_text not active: %+v", cfg.External.AIText)
	}
	if cfg.External.AIText.BaseURL != "https://ai.example.com" {
		t.Fatalf("base url = %q", cfg.External.AIText.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "Port"},
		{"bad tier", func(c *Config) { c.Detection.DefaultTier = 9 }, "tier"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "Level"},
		{"bad environment", func(c *Config) { c.Server.Environment = "staging" }, "Environment"},
		{"missing ring path", func(c *Config) { c.Ring.StorePath = "" }, "ring.store_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestServiceConfigClient(t *testing.T) {
	svc := ServiceConfig{
		Enabled:           true,
		BaseURL:           "https://svc.example.com",
		APIKey:            "k",
		Timeout:           2 * time.Second,
		RequestsPerSecond: 5,
		Burst:             2,
	}
	cc := svc.Client()
	if cc.BaseURL != svc.BaseURL || cc.Timeout != svc.Timeout || cc.Burst != 2 {
		t.Fatalf("client config = %+v", cc)
	}

	if (ServiceConfig{Enabled: true}).Active() {
		t.Fatal("enabled service without base URL should not be active")
	}
	if (ServiceConfig{BaseURL: "https://x"}).Active() {
		t.Fatal("disabled service should not be active")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct{ in, want string }{
		{"SENTINEL_SERVER_PORT", "server.port"},
		{"SENTINEL_SERVER_RATE_LIMIT_REQS", "server.rate_limit_reqs"},
		{"SENTINEL_RING_STORE_PATH", "ring.store_path"},
		{"SENTINEL_EXTERNAL_PLAGIARISM_API_KEY", "external.plagiarism.api_key"},
		{"SENTINEL_EXTERNAL_REPUTATION_REQUESTS_PER_SECOND", "external.reputation.requests_per_second"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Fatalf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadBadFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
