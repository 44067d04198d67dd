// Package config provides configuration loading and validation for the demo
// server and the toolbar. Configuration is loaded from YAML files with
// environment variable overrides using a layered system:
// base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the demo server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Toolbar   ToolbarConfig   `koanf:"toolbar"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ToolbarConfig holds the interception pipeline settings.
type ToolbarConfig struct {
	// Enabled turns interception on. When false the middleware is a pure
	// no-op pass-through that buffers nothing.
	Enabled bool `koanf:"enabled"`

	// InsertBefore is the marker string the toolbar fragment is spliced in
	// front of. Empty means the fragment is always appended.
	InsertBefore string `koanf:"insert_before"`

	// ExcludePaths lists request path prefixes that are never intercepted.
	ExcludePaths []string `koanf:"exclude_paths"`

	// MaxBodySize caps how many response bytes may be buffered per request.
	// Zero means no cap.
	MaxBodySize int64 `koanf:"max_body_size"`

	// HistorySize bounds the in-memory request history.
	HistorySize int `koanf:"history_size"`

	// PathPrefix is where the toolbar mounts its own routes.
	PathPrefix string `koanf:"path_prefix"`

	// DisabledCodecs names content codings whose decoders are turned off,
	// leaving them known but unavailable.
	DisabledCodecs []string `koanf:"disabled_codecs"`
}

// TelemetryConfig holds OpenTelemetry settings for the demo server.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}
