// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"context"
	"io"

	"github.com/absmach/mserve/pkg/handler"
)

// Parser handles protocol-specific message processing.
// Implementations are responsible for:
//  1. Reading exactly one message from the reader
//  2. Calling the handler before and after answering it
//  3. Writing exactly one response to the writer
//
// Parse is called in a loop for every connection. It should:
// - Return nil when the connection can carry another message
// - Return io.EOF for clean connection closure
// - Return other errors to drop the connection without a response
type Parser interface {
	// Parse reads one message from r, answers it on w and updates hctx.
	// The handler h is called to veto and to observe the exchange.
	Parse(ctx context.Context, r io.Reader, w io.Writer, h handler.Handler, hctx *handler.Context) error
}
