// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// OpsConfig holds configuration for an operational HTTP endpoint.
type OpsConfig struct {
	Name            string
	Host            string
	Port            string
	Handler         http.Handler
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// OpsServer serves metrics or health endpoints with net/http.
type OpsServer struct {
	name    string
	server  *http.Server
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	addr net.Addr
}

// NewOps creates a new operational server.
func NewOps(cfg OpsConfig) (*OpsServer, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("%s server: no handler", cfg.Name)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      cfg.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &OpsServer{
		name:    cfg.Name,
		server:  server,
		timeout: cfg.ShutdownTimeout,
		logger:  cfg.Logger,
	}, nil
}

// Addr returns the bound address once the server is listening.
func (s *OpsServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Listen starts the server and blocks until context is cancelled.
func (s *OpsServer) Listen(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info(s.name+" server started", slog.String("address", ln.Addr().String()))

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, closing " + s.name + " server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during shutdown", slog.String("error", err.Error()))
			return err
		}

		s.logger.Info(s.name + " server shutdown complete")
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
