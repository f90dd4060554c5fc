// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"fmt"
	"strconv"

	errs "github.com/absmach/mserve/pkg/errors"
	"github.com/absmach/mserve/pkg/grammar"
)

// Well-known header names.
const (
	HeaderContentLength    = "Content-Length"
	HeaderTransferEncoding = "Transfer-Encoding"
	HeaderConnection       = "Connection"
)

var crlf = grammar.Literal("\r\n")

// Head is the decoded request line and header block of a message.
type Head struct {
	method        string
	target        []byte
	protocol      string
	header        Header
	size          int
	contentLength int
	hasLength     bool
}

// ParseHead decodes the request line and headers at the start of buf. buf
// must contain the CR LF CR LF terminator. The returned Head aliases buf.
func ParseHead(buf []byte) (Head, error) {
	c := grammar.NewCursor(buf)

	line, ok := c.Seq(
		grammar.Method(),
		grammar.Space(),
		grammar.Word(),
		grammar.Space(),
		grammar.Protocol(),
		crlf,
	)
	if !ok {
		return Head{}, fmt.Errorf("%w: %s at %q", errs.ErrMalformedRequestLine, c.Reason(), c.Line())
	}

	h := Head{
		method:   line[0].String(),
		target:   line[2].Text,
		protocol: line[4].String(),
	}

	for {
		start := c.Pos()
		field, ok := c.Seq(grammar.HeaderName(), grammar.HeaderSep(), grammar.HeaderValue(), crlf)
		if !ok {
			// A header line that matched partway is malformed, not the terminator.
			if c.Pos() != start {
				return Head{}, fmt.Errorf("%w: %s at %q", errs.ErrMalformedHeaders, c.Reason(), c.Line())
			}
			break
		}
		h.header.add(field[0].String(), field[2].String())
	}
	if _, ok := c.Match(crlf); !ok {
		return Head{}, fmt.Errorf("%w: expected end of headers at %q", errs.ErrMalformedHeaders, c.Line())
	}
	h.size = c.Pos()

	if v, ok := h.header.Get(HeaderContentLength); ok {
		n, err := parseContentLength(v)
		if err != nil {
			return Head{}, err
		}
		h.contentLength = n
		h.hasLength = true
	}

	return h, nil
}

func parseContentLength(v string) (int, error) {
	c := grammar.NewCursor([]byte(v))
	toks, ok := c.Seq(grammar.Digits(), grammar.End())
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrContentLength, v)
	}
	n, err := strconv.Atoi(toks[0].String())
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", errs.ErrContentLength, v)
	}
	return n, nil
}

// Size returns the length of the head including the blank-line terminator.
func (h Head) Size() int { return h.size }

// ContentLength returns the declared body length, zero when absent.
func (h Head) ContentLength() int { return h.contentLength }

// HasContentLength reports whether a Content-Length header was present.
func (h Head) HasContentLength() bool { return h.hasLength }

// Header returns the parsed header map.
func (h Head) Header() Header { return h.header }

// Request builds the immutable request. body must be exactly
// ContentLength() bytes.
func (h Head) Request(body []byte) *Request {
	return &Request{head: h, body: body}
}

// Request is a fully framed HTTP/1.1 request. Target and Body alias the
// connection's receive buffer and are valid until the next message is read.
type Request struct {
	head Head
	body []byte
}

// Method returns the request method.
func (r *Request) Method() string { return r.head.method }

// Target returns the request target as sent.
func (r *Request) Target() string { return string(r.head.target) }

// Protocol returns the protocol version.
func (r *Request) Protocol() string { return r.head.protocol }

// Header returns the header map.
func (r *Request) Header() Header { return r.head.header }

// Body returns the request payload.
func (r *Request) Body() []byte { return r.body }

// ContentLength returns the declared body length.
func (r *Request) ContentLength() int { return r.head.contentLength }

// Close reports whether the client asked to close the connection after
// this exchange.
func (r *Request) Close() bool {
	v, ok := r.head.header.Get(HeaderConnection)
	return ok && v == "close"
}
