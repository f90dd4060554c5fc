// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package framer cuts single HTTP/1.1 messages out of a byte stream.
package framer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	errs "github.com/absmach/mserve/pkg/errors"
	"github.com/absmach/mserve/pkg/request"
)

// DefaultBufferSize is the receive buffer capacity used when none is given.
const DefaultBufferSize = 4096

var terminator = []byte("\r\n\r\n")

// Framer accumulates bytes from a reader into a fixed-capacity buffer until
// exactly one complete message is available. It owns its buffer and must not
// be shared between connections.
type Framer struct {
	r   io.Reader
	buf []byte
}

// New creates a Framer reading from r with a receive buffer of size bytes.
func New(r io.Reader, size int) *Framer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Framer{
		r:   r,
		buf: make([]byte, size),
	}
}

// Size returns the capacity of the receive buffer.
func (f *Framer) Size() int {
	return len(f.buf)
}

// Next reads until one message is framed and returns it. The request aliases
// the receive buffer and is only valid until the next call.
//
// Next returns io.EOF when the peer closes the stream, including mid-message.
// Any other error is fatal to the connection: no further reads must be made.
func (f *Framer) Next() (*request.Request, error) {
	var (
		n      int
		head   request.Head
		framed bool
	)

	for {
		if n == len(f.buf) {
			return nil, fmt.Errorf("%w: %d bytes without a complete message", errs.ErrBufferExhausted, n)
		}

		m, rerr := f.r.Read(f.buf[n:])
		prev := n
		n += m

		if m > 0 {
			if !framed {
				from := max(prev-len(terminator)+1, 0)
				i := bytes.Index(f.buf[from:n], terminator)
				if i >= 0 {
					var err error
					if head, err = f.frame(f.buf[:from+i+len(terminator)]); err != nil {
						return nil, err
					}
					framed = true
				}
			}

			if framed {
				want := head.Size() + head.ContentLength()
				switch {
				case n > want:
					return nil, fmt.Errorf("%w: %d bytes received, message needs %d", errs.ErrPipelining, n, want)
				case n == want:
					return head.Request(f.buf[head.Size():want:want]), nil
				}
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %w", errs.ErrTransport, rerr)
		}
	}
}

// frame decodes the head and rejects messages this framer cannot complete.
func (f *Framer) frame(buf []byte) (request.Head, error) {
	head, err := request.ParseHead(buf)
	if err != nil {
		return request.Head{}, err
	}
	if head.Header().Has(request.HeaderTransferEncoding) {
		return request.Head{}, errs.ErrTransferEncoding
	}
	if head.ContentLength() > len(f.buf)-head.Size() {
		return request.Head{}, fmt.Errorf("%w: message of %d bytes exceeds buffer of %d",
			errs.ErrBufferExhausted, head.Size()+head.ContentLength(), len(f.buf))
	}
	return head, nil
}
