// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package config loads layered configuration: built-in defaults, then an
// optional YAML file, then SENTINEL_* environment variables, highest last.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/surbee/sentinel/internal/external"
	"github.com/surbee/sentinel/internal/validation"
)

// DefaultConfigPaths lists where the config file is searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sentinel/config.yaml",
	"/etc/sentinel/config.yml",
}

// ConfigPathEnvVar overrides the config file search entirely.
const ConfigPathEnvVar = "SENTINEL_CONFIG_PATH"

const envPrefix = "SENTINEL_"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Detection DetectionConfig `koanf:"detection"`
	Ring      RingConfig      `koanf:"ring"`
	External  ExternalConfig  `koanf:"external"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	Environment     string        `koanf:"environment" validate:"oneof=development production"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DetectionConfig configures the assessment pipeline.
type DetectionConfig struct {
	// DefaultTier applies when a request does not name one.
	DefaultTier int `koanf:"default_tier" validate:"cipher_tier"`

	// ExternalTimeout bounds each collaborator call within an assessment.
	ExternalTimeout time.Duration `koanf:"external_timeout"`
}

// RingConfig configures the fingerprint history store.
type RingConfig struct {
	// InMemory skips Badger and keeps history in process memory.
	InMemory bool `koanf:"in_memory"`

	StorePath string        `koanf:"store_path"`
	Retention time.Duration `koanf:"retention"`

	// Window is how far back shared-fingerprint sessions count toward a
	// ring.
	Window time.Duration `koanf:"window"`
}

// ExternalConfig configures the HTTP-backed analysis services. A service
// with Enabled false (or no base URL) falls back to its offline stand-in
// where one exists, otherwise its sub-score stays unavailable.
type ExternalConfig struct {
	AIText        ServiceConfig `koanf:"ai_text"`
	Plagiarism    ServiceConfig `koanf:"plagiarism"`
	Contradiction ServiceConfig `koanf:"contradiction"`
	Reputation    ServiceConfig `koanf:"reputation"`
}

// ServiceConfig is one analysis service's switch plus transport settings.
type ServiceConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// Client converts the service settings into the transport configuration.
func (s ServiceConfig) Client() external.ClientConfig {
	return external.ClientConfig{
		BaseURL:           s.BaseURL,
		APIKey:            s.APIKey,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}
}

// Active reports whether the service should be wired at all.
func (s ServiceConfig) Active() bool {
	return s.Enabled && s.BaseURL != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Detection: DetectionConfig{
			DefaultTier:     2,
			ExternalTimeout: 3 * time.Second,
		},
		Ring: RingConfig{
			StorePath: "/data/sentinel/rings",
			Retention: 24 * time.Hour,
			Window:    6 * time.Hour,
		},
		External: ExternalConfig{
			AIText:        defaultServiceConfig(),
			Plagiarism:    defaultServiceConfig(),
			Contradiction: defaultServiceConfig(),
			Reputation:    defaultServiceConfig(),
		},
	}
}

func defaultServiceConfig() ServiceConfig {
	cc := external.DefaultClientConfig()
	return ServiceConfig{
		Timeout:           cc.Timeout,
		RequestsPerSecond: cc.RequestsPerSecond,
		Burst:             cc.Burst,
	}
}

// Load builds the configuration from defaults, the config file if one
// exists, and the environment, then validates the result.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path; empty skips the file
// layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Ring.InMemory && c.Ring.StorePath == "" {
		return fmt.Errorf("invalid configuration: ring.store_path required unless ring.in_memory is set")
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, p := range DefaultConfigPaths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// envKeyOverrides maps flattened environment keys to nested koanf paths
// that the one-underscore split cannot reach.
var envKeyOverrides = map[string]string{}

func init() {
	services := []string{"ai_text", "plagiarism", "contradiction", "reputation"}
	fields := []string{"enabled", "base_url", "api_key", "timeout", "requests_per_second", "burst"}
	for _, svc := range services {
		for _, f := range fields {
			envKeyOverrides["external_"+svc+"_"+f] = "external." + svc + "." + f
		}
	}
}

// envTransform turns SENTINEL_SERVER_RATE_LIMIT_REQS into
// server.rate_limit_reqs: the first underscore separates the section, the
// rest stays a snake_case key, with an override table for the deeper
// external.* paths.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envKeyOverrides[key]; ok {
		return mapped
	}
	if section, rest, ok := strings.Cut(key, "_"); ok {
		return section + "." + rest
	}
	return key
}
