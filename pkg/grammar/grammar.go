// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grammar

import "fmt"

// Kind identifies what a token was matched as.
type Kind int

const (
	KindLiteral Kind = iota
	KindEnd
	KindWord
	KindHeaderName
	KindHeaderValue
	KindHeaderSep
	KindDigits
	KindSpace
	KindField
	KindMethod
	KindProtocol
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindEnd:
		return "end"
	case KindWord:
		return "word"
	case KindHeaderName:
		return "header name"
	case KindHeaderValue:
		return "header value"
	case KindHeaderSep:
		return "header separator"
	case KindDigits:
		return "digits"
	case KindSpace:
		return "whitespace"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Token is a typed slice of the matched input. It aliases the buffer the
// cursor was created over and is valid only as long as that buffer is.
type Token struct {
	Kind Kind
	Text []byte
}

// String returns the token text.
func (t Token) String() string {
	return string(t.Text)
}

// Result is the outcome of a single match attempt: either a success carrying
// the new position and the token, or a failure carrying a reason. A failed
// Result always reports the position it was attempted at.
type Result struct {
	Pos    int
	Token  Token
	Reason string
	ok     bool
}

// OK reports whether the match succeeded.
func (r Result) OK() bool {
	return r.ok
}

func success(pos int, tok Token) Result {
	return Result{Pos: pos, Token: tok, ok: true}
}

func failure(pos int, format string, args ...any) Result {
	return Result{Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

// Matcher recognizes one grammar fragment at a position of an immutable
// buffer. Implementations must not retain or modify buf.
type Matcher interface {
	Match(buf []byte, pos int) Result
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(buf []byte, pos int) Result

// Match calls f(buf, pos).
func (f MatcherFunc) Match(buf []byte, pos int) Result {
	return f(buf, pos)
}
