// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package grammar is a small parser-combinator library over byte buffers.
//
// A Matcher inspects a buffer at a position and returns a Result: either a
// success with the position after the match and a typed Token, or a failure
// with a reason and the position unchanged. Matchers are pure and never
// backtrack; alternatives such as the request method are handled inside a
// single matcher that retries each literal from the same start.
//
// A Cursor strings matchers together:
//
//	c := grammar.NewCursor(line)
//	toks, ok := c.Seq(grammar.Method(), grammar.Space(), grammar.Word())
//	if !ok {
//		log.Printf("%s at %q", c.Reason(), c.Line())
//	}
//
// Seq is a short-circuit AND. A cursor never rewinds, so matchers that
// succeeded before a failing one keep their progress.
package grammar
