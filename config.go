// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package mserve holds the process configuration of the mserve binary.
package mserve

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is the prefix of every environment variable read by mserve.
const EnvPrefix = "MSERVE_"

var (
	errEmptyPort      = errors.New("port is not configured")
	errBufferSize     = errors.New("buffer size must be positive")
	errLogFormat      = errors.New("log format must be json or text")
	errLogLevel       = errors.New("log level must be debug, info, warn or error")
	errOpsPortInvalid = errors.New("ops port must be between 0 and 65535")
)

// Config holds the application configuration.
type Config struct {
	Host            string        `env:"HOST"             envDefault:""`
	Port            string        `env:"PORT"             envDefault:"3000"`
	ContentDir      string        `env:"CONTENT_DIR"      envDefault:"web"`
	IndexFile       string        `env:"INDEX_FILE"       envDefault:"index.html"`
	TemplateFile    string        `env:"TEMPLATE_FILE"    envDefault:"template.html"`
	BufferSize      int           `env:"BUFFER_SIZE"      envDefault:"4096"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Observability
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"   envDefault:"json"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9090"`
	HealthPort  int    `env:"HEALTH_PORT"  envDefault:"8080"`
}

// NewConfig parses the configuration from the environment using opts.
func NewConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Port == "" {
		return errEmptyPort
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: %d", errBufferSize, c.BufferSize)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%w: %q", errLogFormat, c.LogFormat)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, p := range []int{c.MetricsPort, c.HealthPort} {
		if p < 0 || p > 65535 {
			return fmt.Errorf("%w: %d", errOpsPortInvalid, p)
		}
	}
	return nil
}

// ParseLevel maps a configured log level to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", errLogLevel, level)
	}
}

// MetricsAddr returns the metrics port as a string, empty when disabled.
func (c Config) MetricsAddr() string {
	return opsPort(c.MetricsPort)
}

// HealthAddr returns the health port as a string, empty when disabled.
func (c Config) HealthAddr() string {
	return opsPort(c.HealthPort)
}

func opsPort(p int) string {
	if p == 0 {
		return ""
	}
	return strconv.Itoa(p)
}
