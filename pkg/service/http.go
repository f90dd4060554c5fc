// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/absmach/mserve/pkg/content"
	"github.com/absmach/mserve/pkg/handler"
	"github.com/absmach/mserve/pkg/metrics"
	httpparser "github.com/absmach/mserve/pkg/parser/http"
	"github.com/absmach/mserve/pkg/router"
	"github.com/absmach/mserve/pkg/server/tcp"
)

// Defaults for HTTPConfig fields left empty.
const (
	DefaultIndexFile    = "index.html"
	DefaultTemplateFile = "template.html"
)

// ErrNoContent is returned when neither a store nor a content directory is set.
var ErrNoContent = errors.New("no content source configured")

// HTTPConfig holds configuration for the HTTP service.
type HTTPConfig struct {
	Host            string
	Port            string
	ContentDir      string
	IndexFile       string
	TemplateFile    string
	BufferSize      int
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
	Metrics         *metrics.Metrics

	// Store overrides ContentDir when set.
	Store content.Store

	// Listen and Platform are passed to the TCP server.
	Listen   tcp.ListenFunc
	Platform tcp.Platform
}

// HTTPService coordinates the TCP server, the HTTP parser and the router.
type HTTPService struct {
	server *tcp.Server
	router *router.Router
	store  content.Store
}

// NewHTTP creates a new HTTP service. The route table is built here and
// never changes afterwards.
func NewHTTP(cfg HTTPConfig, h handler.Handler) (*HTTPService, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.IndexFile == "" {
		cfg.IndexFile = DefaultIndexFile
	}
	if cfg.TemplateFile == "" {
		cfg.TemplateFile = DefaultTemplateFile
	}

	store := cfg.Store
	if store == nil {
		if cfg.ContentDir == "" {
			return nil, ErrNoContent
		}
		store = content.NewDirStore(cfg.ContentDir)
	}

	rt := router.Default(store, cfg.IndexFile, cfg.TemplateFile)

	parser := httpparser.NewParser(httpparser.Config{
		BufferSize: cfg.BufferSize,
		Logger:     cfg.Logger,
		Metrics:    cfg.Metrics,
	}, rt)

	serverCfg := tcp.Config{
		Address:         net.JoinHostPort(cfg.Host, cfg.Port),
		Protocol:        httpparser.Protocol,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Listen:          cfg.Listen,
		Platform:        cfg.Platform,
		Logger:          cfg.Logger,
		Metrics:         cfg.Metrics,
	}

	return &HTTPService{
		server: tcp.New(serverCfg, parser, h),
		router: rt,
		store:  store,
	}, nil
}

// Listen starts the HTTP service and blocks until context is cancelled.
func (s *HTTPService) Listen(ctx context.Context) error {
	return s.server.Listen(ctx)
}

// Addr returns the bound address once the service is listening.
func (s *HTTPService) Addr() net.Addr {
	return s.server.Addr()
}

// Routes returns the route names in evaluation order.
func (s *HTTPService) Routes() []string {
	return s.router.Names()
}

// Store returns the content store the routes read from.
func (s *HTTPService) Store() content.Store {
	return s.store
}
