// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grammar

// Cursor drives matchers over an immutable buffer. Its position only moves
// forward, and only when a matcher succeeds.
type Cursor struct {
	buf    []byte
	pos    int
	reason string
}

// NewCursor creates a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current offset into the buffer.
func (c *Cursor) Pos() int {
	return c.pos
}

// Rest returns the unconsumed part of the buffer.
func (c *Cursor) Rest() []byte {
	return c.buf[c.pos:]
}

// AtEnd reports whether the whole buffer has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos == len(c.buf)
}

// Reason returns the diagnostic of the most recent failed match, if any.
func (c *Cursor) Reason() string {
	return c.reason
}

// Line returns the printable characters from the current position up to the
// end of the line.
func (c *Cursor) Line() string {
	end := c.pos
	for end < len(c.buf) && isPrintable(c.buf[end]) {
		end++
	}
	return string(c.buf[c.pos:end])
}

// Match applies m at the current position and advances on success.
func (c *Cursor) Match(m Matcher) (Token, bool) {
	r := m.Match(c.buf, c.pos)
	if !r.OK() {
		c.reason = r.Reason
		return Token{}, false
	}
	c.pos = r.Pos
	return r.Token, true
}

// Seq applies ms in order and stops at the first failure. Matchers that
// succeeded before the failure keep their progress. On success it returns one
// token per matcher.
func (c *Cursor) Seq(ms ...Matcher) ([]Token, bool) {
	toks := make([]Token, 0, len(ms))
	for _, m := range ms {
		tok, ok := c.Match(m)
		if !ok {
			return toks, false
		}
		toks = append(toks, tok)
	}
	return toks, true
}
