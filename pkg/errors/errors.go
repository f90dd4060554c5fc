// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package errors provides structured error handling for mserve.
package errors

import (
	"errors"
	"fmt"
)

// Error classes. Every connection-fatal error wraps exactly one of them.
var (
	// ErrFraming indicates the client sent bytes that cannot be framed or
	// parsed as a supported HTTP/1.1 message. The connection is dropped
	// without a response.
	ErrFraming = errors.New("client framing error")

	// ErrTransport indicates a receive or send failure, or a message that
	// does not fit the receive buffer. The connection is dropped.
	ErrTransport = errors.New("transport error")
)

// Framing errors.
var (
	// ErrMalformedRequestLine indicates a request line that does not match
	// METHOD SP TARGET SP HTTP/1.1 CRLF.
	ErrMalformedRequestLine = fmt.Errorf("%w: malformed request line", ErrFraming)

	// ErrMalformedHeaders indicates a header block not terminated by a blank line.
	ErrMalformedHeaders = fmt.Errorf("%w: malformed header block", ErrFraming)

	// ErrContentLength indicates a Content-Length that is not a bare decimal integer.
	ErrContentLength = fmt.Errorf("%w: malformed Content-Length", ErrFraming)

	// ErrTransferEncoding indicates a Transfer-Encoding header, which is not supported.
	ErrTransferEncoding = fmt.Errorf("%w: Transfer-Encoding is not supported", ErrFraming)

	// ErrPipelining indicates more bytes were received than the current message needs.
	ErrPipelining = fmt.Errorf("%w: pipelining is not supported", ErrFraming)
)

// ErrBufferExhausted indicates the receive buffer filled up before a message was framed.
var ErrBufferExhausted = fmt.Errorf("%w: receive buffer exhausted", ErrTransport)

// ConnError wraps an error with the connection it happened on.
type ConnError struct {
	Op         string // Operation that failed
	SessionID  string // Session identifier
	RemoteAddr string // Client address
	Err        error  // Underlying error
}

// Error implements the error interface.
func (e *ConnError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("%s [%s] %s: %v", e.Op, e.SessionID, e.RemoteAddr, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.RemoteAddr, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnError) Unwrap() error {
	return e.Err
}

// New creates a new ConnError.
func New(op, sessionID, remoteAddr string, err error) error {
	if err == nil {
		return nil
	}
	return &ConnError{
		Op:         op,
		SessionID:  sessionID,
		RemoteAddr: remoteAddr,
		Err:        err,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsFraming reports whether err belongs to the client framing class.
func IsFraming(err error) bool {
	return errors.Is(err, ErrFraming)
}

// IsTransport reports whether err belongs to the transport class.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// Reason returns a short label for err suitable for metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMalformedRequestLine):
		return "request_line"
	case errors.Is(err, ErrMalformedHeaders):
		return "headers"
	case errors.Is(err, ErrContentLength):
		return "content_length"
	case errors.Is(err, ErrTransferEncoding):
		return "transfer_encoding"
	case errors.Is(err, ErrPipelining):
		return "pipelining"
	case errors.Is(err, ErrBufferExhausted):
		return "buffer_exhausted"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
