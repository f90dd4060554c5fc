// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package handler defines the hooks that observe and gate connection lifecycle events.
//
// # Data Flow
//
//	accept → OnConnect → [ frame → OnRequest → route → write → OnResponse ]* → OnDisconnect
//
// The bracketed part repeats for every request on a keep-alive connection.
//
// # Handler Methods
//
// Gating methods can close the connection by returning an error:
//   - OnConnect: called once after accept, before the first read
//   - OnRequest: called for every framed request, before routing
//
// Notification methods only observe:
//   - OnResponse: called after the response bytes were written
//   - OnDisconnect: called when the connection is closed
//
// # Context
//
// The Context struct carries connection metadata across all handler calls:
//   - SessionID: Unique identifier for this connection
//   - RemoteAddr: Client's network address
//   - Protocol: Protocol served on the connection
//   - Requests: Number of requests answered so far
//
// A Context belongs to exactly one connection worker and is never shared.
//
// # Example
//
//	type AllowList struct {
//		handler.NoopHandler
//		allowed map[string]bool
//	}
//
//	func (h *AllowList) OnConnect(ctx context.Context, hctx *handler.Context) error {
//		host, _, _ := net.SplitHostPort(hctx.RemoteAddr)
//		if !h.allowed[host] {
//			return errors.New("address not allowed")
//		}
//		return nil
//	}
package handler
