// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package tcp implements the connection acceptor for mserve.
//
// # Overview
//
// The TCP server accepts connections and hands each one to its own
// goroutine, which calls a pluggable parser once per request/response
// exchange. Requests on one connection are answered strictly in order.
//
// # Architecture
//
//	┌─────────┐         ┌─────────┐
//	│ Client  │ ←─TCP─→ │  Server │
//	└─────────┘         └─────────┘
//	                         ↓
//	                    ┌─────────┐
//	                    │ Parser  │ → Router → Response
//	                    └─────────┘
//	                         ↓
//	                    ┌─────────┐
//	                    │ Handler │
//	                    └─────────┘
//
// # Connection Flow
//
//  1. Client connects to server
//  2. Server accepts connection and assigns a session ID
//  3. Server calls handler.OnConnect(), which may refuse the connection
//  4. Server calls parser.Parse() until it returns an error:
//     - io.EOF: the client closed or sent "Connection: close"
//     - framing or transport error: dropped without a response
//  5. Server calls handler.OnDisconnect()
//  6. Connection closed
//
// # Graceful Shutdown
//
// When context is canceled:
//
//  1. Server stops accepting new connections
//  2. Connections finish their current exchange and close
//  3. After ShutdownTimeout, remaining connections are closed forcibly
//  4. Returns ErrShutdownTimeout if timeout exceeded
//
// Connections that are idle between requests block in a read, so they are
// only released by the forced close.
//
// # Platform Lifecycle
//
// Config.Platform is started before the listener is created and stopped
// after the accept loop has ended. Programs that need a process-wide
// network bring-up provide their own; the default does nothing.
//
// # Configuration
//
//   - Address: Server listen address (e.g., ":3000")
//   - Protocol: Value reported in handler.Context.Protocol
//   - ShutdownTimeout: Max wait time for graceful shutdown (default: 30s)
//   - Listen: Listener factory (default: net.Listen)
//   - Platform: Network lifecycle adapter (default: NopPlatform)
//   - Logger: Structured logger
//   - Metrics: Optional Prometheus metrics
//
// # Example
//
//	p := http.NewParser(http.Config{}, router.Default(store, "index.html", "template.html"))
//
//	cfg := tcp.Config{
//		Address:         ":3000",
//		Protocol:        http.Protocol,
//		ShutdownTimeout: 30 * time.Second,
//	}
//
//	server := tcp.New(cfg, p, &handler.NoopHandler{})
//	if err := server.Listen(ctx); err != nil {
//		log.Fatal(err)
//	}
package tcp
