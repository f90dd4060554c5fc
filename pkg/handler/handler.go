// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"

	"github.com/absmach/mserve/pkg/request"
)

// Context contains connection metadata. It is owned by a single connection
// worker and passed to every Handler call made for that connection.
type Context struct {
	// SessionID is a unique identifier for this connection
	SessionID string

	// RemoteAddr is the client's network address
	RemoteAddr string

	// Protocol is the protocol served on the connection
	Protocol string

	// Requests is the number of requests answered on this connection so far
	Requests int
}

// Handler receives connection lifecycle events from the server and the
// HTTP parser.
//
// OnConnect and OnRequest can veto: returning an error closes the connection
// without sending a response. The remaining methods are notifications; their
// errors are logged but change nothing.
type Handler interface {
	// OnConnect is called once per accepted connection, before the first read.
	OnConnect(ctx context.Context, hctx *Context) error

	// OnRequest is called for every framed request, before routing.
	OnRequest(ctx context.Context, hctx *Context, req *request.Request) error

	// OnResponse is called after a response has been written.
	// route is the name of the route that produced it.
	OnResponse(ctx context.Context, hctx *Context, req *request.Request, route string, status int) error

	// OnDisconnect is called when the connection is closed, for any reason.
	OnDisconnect(ctx context.Context, hctx *Context) error
}

// NoopHandler is a Handler implementation that allows everything.
// Useful for testing or when no hooks are needed.
type NoopHandler struct{}

var _ Handler = (*NoopHandler)(nil)

func (h *NoopHandler) OnConnect(ctx context.Context, hctx *Context) error {
	return nil
}

func (h *NoopHandler) OnRequest(ctx context.Context, hctx *Context, req *request.Request) error {
	return nil
}

func (h *NoopHandler) OnResponse(ctx context.Context, hctx *Context, req *request.Request, route string, status int) error {
	return nil
}

func (h *NoopHandler) OnDisconnect(ctx context.Context, hctx *Context) error {
	return nil
}
