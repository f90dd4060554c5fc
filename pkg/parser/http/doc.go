// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package http implements the HTTP/1.1 message parser for mserve.
//
// # Overview
//
// The parser answers exactly one request per Parse call. It frames the
// message with a fixed-capacity buffer, hands it to the router and writes
// the encoded response back on the same stream.
//
// # Request Flow
//
//	1. Framer reads until CR LF CR LF and Content-Length bytes of body
//	2. Parser calls handler.OnRequest()
//	3. Router offers the request to each route in order
//	4. Response is encoded with an exact Content-Length
//	5. Response bytes are written to the connection
//	6. Parser calls handler.OnResponse()
//
// # Closing the Connection
//
// Parse returns io.EOF when the peer closed the stream or the request
// carried "Connection: close"; in the latter case the response includes
// the same header. Framing and transport failures are returned as errors
// from pkg/errors and no response is written. Route-level errors (400,
// 404, 500) are ordinary responses and keep the connection open.
//
// # Protocol Field
//
// Servers set hctx.Protocol = "http" for connections using this parser.
//
// # Tracing
//
// Each dispatched request is wrapped in a server span named "http.request"
// carrying the method, target, route and status. Spans are no-ops unless the
// program installs an OpenTelemetry TracerProvider.
package http
