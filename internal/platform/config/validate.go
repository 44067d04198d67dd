package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Toolbar.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *ToolbarConfig) validate() error {
	var errs []error

	if t.MaxBodySize < 0 {
		errs = append(errs, fmt.Errorf("toolbar.max_body_size must not be negative, got %d", t.MaxBodySize))
	}
	if t.HistorySize < 1 {
		errs = append(errs, fmt.Errorf("toolbar.history_size must be >= 1, got %d", t.HistorySize))
	}
	if !strings.HasPrefix(t.PathPrefix, "/") {
		errs = append(errs, fmt.Errorf("toolbar.path_prefix must start with '/', got %q", t.PathPrefix))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if t.Enabled && t.ServiceName == "" {
		return errors.New("telemetry.service_name must not be empty when telemetry is enabled")
	}
	return nil
}
