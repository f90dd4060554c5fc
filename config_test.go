// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mserve

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{},
	})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	want := Config{
		Port:            "3000",
		ContentDir:      "web",
		IndexFile:       "index.html",
		TemplateFile:    "template.html",
		BufferSize:      4096,
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
		MetricsPort:     9090,
		HealthPort:      8080,
	}
	if cfg != want {
		t.Errorf("NewConfig() = %+v, want %+v", cfg, want)
	}
}

func TestNewConfig_Environment(t *testing.T) {
	cfg, err := NewConfig(env.Options{
		Prefix: EnvPrefix,
		Environment: map[string]string{
			"MSERVE_HOST":             "127.0.0.1",
			"MSERVE_PORT":             "8000",
			"MSERVE_CONTENT_DIR":      "/srv/www",
			"MSERVE_BUFFER_SIZE":      "8192",
			"MSERVE_SHUTDOWN_TIMEOUT": "5s",
			"MSERVE_LOG_FORMAT":       "text",
			"MSERVE_METRICS_PORT":     "0",
			"PORT":                    "1",
		},
	})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Host != "127.0.0.1" || cfg.Port != "8000" || cfg.ContentDir != "/srv/www" {
		t.Errorf("NewConfig() address fields = %q %q %q", cfg.Host, cfg.Port, cfg.ContentDir)
	}
	if cfg.BufferSize != 8192 || cfg.ShutdownTimeout != 5*time.Second || cfg.LogFormat != "text" {
		t.Errorf("NewConfig() = %+v", cfg)
	}
	if cfg.MetricsAddr() != "" {
		t.Errorf("MetricsAddr() = %q, want disabled", cfg.MetricsAddr())
	}
	if cfg.HealthAddr() != "8080" {
		t.Errorf("HealthAddr() = %q, want 8080", cfg.HealthAddr())
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "3000", BufferSize: 4096, LogLevel: "info", LogFormat: "json"}

	cases := []struct {
		desc   string
		modify func(*Config)
		err    error
	}{
		{desc: "valid", modify: func(*Config) {}, err: nil},
		{desc: "empty port", modify: func(c *Config) { c.Port = "" }, err: errEmptyPort},
		{desc: "zero buffer", modify: func(c *Config) { c.BufferSize = 0 }, err: errBufferSize},
		{desc: "negative buffer", modify: func(c *Config) { c.BufferSize = -1 }, err: errBufferSize},
		{desc: "bad format", modify: func(c *Config) { c.LogFormat = "xml" }, err: errLogFormat},
		{desc: "bad level", modify: func(c *Config) { c.LogLevel = "loud" }, err: errLogLevel},
		{desc: "bad metrics port", modify: func(c *Config) { c.MetricsPort = 70000 }, err: errOpsPortInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := valid
			tc.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.err) {
				t.Errorf("Validate() error = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	_, err := NewConfig(env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{"MSERVE_BUFFER_SIZE": "0"},
	})
	if !errors.Is(err, errBufferSize) {
		t.Errorf("NewConfig() error = %v, want %v", err, errBufferSize)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
