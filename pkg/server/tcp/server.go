// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	errs "github.com/absmach/mserve/pkg/errors"
	"github.com/absmach/mserve/pkg/handler"
	"github.com/absmach/mserve/pkg/metrics"
	"github.com/absmach/mserve/pkg/parser"
	"github.com/google/uuid"
)

var (
	// ErrShutdownTimeout is returned when graceful shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timeout exceeded")
)

// ListenFunc creates the listening socket. net.Listen is used by default.
type ListenFunc func(network, address string) (net.Listener, error)

// Platform is the process-wide network lifecycle the server depends on but
// does not own. Start is called before listening, Stop after the accept
// loop has ended.
type Platform interface {
	Start() error
	Stop() error
}

// NopPlatform is a Platform that does nothing.
type NopPlatform struct{}

func (NopPlatform) Start() error { return nil }

func (NopPlatform) Stop() error { return nil }

// Config holds the TCP server configuration.
type Config struct {
	// Address is the listen address (host:port)
	Address string

	// Protocol is reported to handlers in handler.Context.Protocol
	Protocol string

	// ShutdownTimeout is the maximum time to wait for active connections to drain
	// during graceful shutdown. After this timeout, remaining connections are
	// forcefully closed.
	ShutdownTimeout time.Duration

	// Listen creates the listener; defaults to net.Listen
	Listen ListenFunc

	// Platform defaults to NopPlatform
	Platform Platform

	// Logger for server events
	Logger *slog.Logger

	// Metrics is optional
	Metrics *metrics.Metrics
}

// Server accepts TCP connections and serves each one on its own goroutine
// by calling the parser until it reports the end of the connection.
type Server struct {
	config  Config
	parser  parser.Parser
	handler handler.Handler
	wg      sync.WaitGroup
	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	addr    net.Addr
}

// New creates a new TCP server with the given configuration, parser, and handler.
func New(cfg Config, p parser.Parser, h handler.Handler) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Listen == nil {
		cfg.Listen = net.Listen
	}
	if cfg.Platform == nil {
		cfg.Platform = NopPlatform{}
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "tcp"
	}
	if h == nil {
		h = &handler.NoopHandler{}
	}

	return &Server{
		config:  cfg,
		parser:  p,
		handler: h,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Addr returns the bound listener address, or nil before Listen has bound.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Listen starts the TCP server and blocks until the context is cancelled.
// It implements graceful shutdown with connection draining.
func (s *Server) Listen(ctx context.Context) error {
	if err := s.config.Platform.Start(); err != nil {
		return errs.Wrap(err, "failed to start network platform")
	}
	defer func() {
		if err := s.config.Platform.Stop(); err != nil {
			s.config.Logger.Error("error stopping network platform", slog.String("error", err.Error()))
		}
	}()

	listener, err := s.config.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()

	s.config.Logger.Info("TCP server started", slog.String("address", listener.Addr().String()))

	// Accept loop
	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					// Expected error during shutdown
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.config.Logger.Error("failed to accept connection", slog.String("error", err.Error()))
				continue
			}

			s.track(conn)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer s.untrack(conn)
				if err := s.handleConn(ctx, conn); err != nil && !errors.Is(err, io.EOF) {
					s.config.Logger.Debug("connection handler error",
						slog.String("remote", conn.RemoteAddr().String()),
						slog.String("error", err.Error()))
				}
			}()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	s.config.Logger.Info("shutdown signal received, closing listener")

	// Close the listener to stop accepting new connections
	if err := listener.Close(); err != nil {
		s.config.Logger.Error("error closing listener", slog.String("error", err.Error()))
	}

	// Wait for accept loop to finish
	<-acceptDone

	// Wait for active connections to drain with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.config.Logger.Info("all connections closed gracefully")
		return nil
	case <-time.After(s.config.ShutdownTimeout):
		s.config.Logger.Warn("shutdown timeout exceeded, forcing connection closure",
			slog.Int("connections", s.closeAll()))
		// Blocked reads return once their sockets are closed.
		select {
		case <-done:
		case <-time.After(1 * time.Second):
		}
		return ErrShutdownTimeout
	}
}

// handleConn serves a single client connection:
// 1. Creating a handler context with connection metadata
// 2. Asking the handler to accept the connection
// 3. Calling the parser once per request until it reports the end
// 4. Notifying the handler and closing the socket
func (s *Server) handleConn(ctx context.Context, conn net.Conn) error {
	defer conn.Close()

	hctx := &handler.Context{
		SessionID:  uuid.New().String(),
		RemoteAddr: conn.RemoteAddr().String(),
		Protocol:   s.config.Protocol,
	}

	return s.config.Metrics.ObserveConnection(func() (int, error) {
		if err := s.handler.OnConnect(ctx, hctx); err != nil {
			s.config.Logger.Debug("connection refused",
				slog.String("session", hctx.SessionID),
				slog.String("remote", hctx.RemoteAddr),
				slog.String("error", err.Error()))
			return 0, errs.New("connect", hctx.SessionID, hctx.RemoteAddr, err)
		}

		s.config.Logger.Debug("connection established",
			slog.String("session", hctx.SessionID),
			slog.String("remote", hctx.RemoteAddr))

		err := s.serve(ctx, conn, hctx)

		// Notify disconnect
		if derr := s.handler.OnDisconnect(context.Background(), hctx); derr != nil {
			s.config.Logger.Error("disconnect handler error",
				slog.String("session", hctx.SessionID),
				slog.String("error", derr.Error()))
		}

		s.config.Logger.Debug("connection closed",
			slog.String("session", hctx.SessionID),
			slog.Int("served", hctx.Requests))

		if errors.Is(err, io.EOF) {
			return hctx.Requests, nil
		}
		return hctx.Requests, err
	})
}

// serve answers requests sequentially until the parser returns an error or
// the server is shutting down between two exchanges.
func (s *Server) serve(ctx context.Context, conn net.Conn, hctx *handler.Context) error {
	for {
		select {
		case <-ctx.Done():
			return io.EOF
		default:
		}

		if err := s.parser.Parse(ctx, conn, conn, s.handler, hctx); err != nil {
			return err
		}
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// closeAll closes every tracked connection and returns how many there were.
func (s *Server) closeAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	return len(s.conns)
}
