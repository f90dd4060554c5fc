// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package response assembles HTTP/1.1 responses into wire bytes.
package response

import (
	"bytes"
	"errors"
	"strconv"
)

// Status codes emitted by the server.
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusInternalServerError = 500
)

// Content types.
const (
	ContentTypeHTML  = "text/html"
	ContentTypePlain = "text/plain"
)

// ErrConsumed is returned when a response is encoded a second time.
var ErrConsumed = errors.New("response already encoded")

var statusText = map[int]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns the reason phrase for code, or "Unknown".
func StatusText(code int) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown"
}

// Response is built incrementally by a route and encoded exactly once.
type Response struct {
	status      int
	contentType string
	body        bytes.Buffer
	consumed    bool
}

// New creates an empty 200 text/plain response.
func New() *Response {
	return &Response{
		status:      StatusOK,
		contentType: ContentTypePlain,
	}
}

// SetStatus sets the status code.
func (r *Response) SetStatus(code int) { r.status = code }

// SetContentType sets the Content-Type header value.
func (r *Response) SetContentType(ct string) { r.contentType = ct }

// Status returns the status code.
func (r *Response) Status() int { return r.status }

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() string { return r.contentType }

// Write appends p to the body.
func (r *Response) Write(p []byte) (int, error) { return r.body.Write(p) }

// WriteString appends s to the body.
func (r *Response) WriteString(s string) (int, error) { return r.body.WriteString(s) }

// Body returns the accumulated body.
func (r *Response) Body() []byte { return r.body.Bytes() }

// Reset discards the body and restores the defaults.
func (r *Response) Reset() {
	r.status = StatusOK
	r.contentType = ContentTypePlain
	r.body.Reset()
}

// Encode returns the wire form of the response. close adds a
// "Connection: close" header. Content-Length always reflects the body.
func (r *Response) Encode(close bool) ([]byte, error) {
	if r.consumed {
		return nil, ErrConsumed
	}
	r.consumed = true

	var out bytes.Buffer
	out.Grow(128 + r.body.Len())

	out.WriteString("HTTP/1.1 ")
	out.WriteString(strconv.Itoa(r.status))
	out.WriteByte(' ')
	out.WriteString(StatusText(r.status))
	out.WriteString("\r\n")

	out.WriteString("Content-Type: ")
	out.WriteString(r.contentType)
	out.WriteString("\r\n")

	if close {
		out.WriteString("Connection: close\r\n")
	}

	out.WriteString("Content-Length: ")
	out.WriteString(strconv.Itoa(r.body.Len()))
	out.WriteString("\r\n\r\n")

	out.Write(r.body.Bytes())

	return out.Bytes(), nil
}
