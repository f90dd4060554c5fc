// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package parser defines the interface for protocol-specific message processing.
//
// # Architecture Overview
//
// Parsers sit between the transport layer (the TCP server) and the hooks
// layer (handlers). The server owns the connection and calls Parse in a loop;
// the parser owns everything about a single exchange.
//
// # Parser Interface
//
// The Parser interface has a single method:
//
//	Parse(ctx context.Context, r io.Reader, w io.Writer, h handler.Handler, hctx *handler.Context) error
//
// One call handles one request/response exchange:
//
//  1. Read bytes from r until exactly one message is framed
//  2. Call handler.OnRequest, which may veto the exchange
//  3. Produce and write the response to w
//  4. Call handler.OnResponse
//
// # Return Values
//
//   - nil: the exchange completed and the connection stays open
//   - io.EOF: the peer closed, or the exchange asked for closure
//   - any other error: the connection is dropped without a response
//
// # Integration with Servers
//
// The TCP server runs one goroutine per connection; each goroutine calls
// Parse until it returns a non-nil error:
//
//	for {
//		if err := p.Parse(ctx, conn, conn, h, hctx); err != nil {
//			return err
//		}
//	}
//
// # Implementations
//
//   - parser/http: HTTP/1.1 with Content-Length framing
package parser
