// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grammar

import "bytes"

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	// HTTP11 is the only protocol version accepted by Protocol.
	HTTP11 = "HTTP/1.1"
)

// Literal matches s exactly.
func Literal(s string) Matcher {
	lit := []byte(s)
	return MatcherFunc(func(buf []byte, pos int) Result {
		if len(lit) == 0 || !bytes.HasPrefix(buf[pos:], lit) {
			return failure(pos, "expected %q", s)
		}
		end := pos + len(lit)
		return success(end, Token{Kind: KindLiteral, Text: buf[pos:end]})
	})
}

// End matches the end of the input without consuming anything. It is the
// only matcher that succeeds with zero bytes consumed.
func End() Matcher {
	return MatcherFunc(func(buf []byte, pos int) Result {
		if pos != len(buf) {
			return failure(pos, "expected end of input")
		}
		return success(pos, Token{Kind: KindEnd})
	})
}

// Run matches the longest non-empty run of bytes accepted by pred.
func Run(kind Kind, pred func(b byte) bool) Matcher {
	return MatcherFunc(func(buf []byte, pos int) Result {
		end := pos
		for end < len(buf) && pred(buf[end]) {
			end++
		}
		if end == pos {
			return failure(pos, "expected %s", kind)
		}
		return success(end, Token{Kind: kind, Text: buf[pos:end]})
	})
}

// Word matches a run of visible ASCII characters (0x21-0x7E).
func Word() Matcher { return Run(KindWord, isVisible) }

// HeaderName matches a run of letters, digits and '-'.
func HeaderName() Matcher { return Run(KindHeaderName, isHeaderName) }

// HeaderValue matches a run of printable ASCII characters (0x20-0x7E).
func HeaderValue() Matcher { return Run(KindHeaderValue, isPrintable) }

// Digits matches a run of decimal digits.
func Digits() Matcher { return Run(KindDigits, isDigit) }

// Space matches a run of spaces and tabs.
func Space() Matcher { return Run(KindSpace, isSpace) }

// Field matches a query key or value: visible ASCII except '/', '?', '&' and '='.
func Field() Matcher { return Run(KindField, isField) }

// HeaderSep matches a colon followed by any number of spaces.
func HeaderSep() Matcher {
	return MatcherFunc(func(buf []byte, pos int) Result {
		if pos >= len(buf) || buf[pos] != ':' {
			return failure(pos, "expected ':'")
		}
		end := pos + 1
		for end < len(buf) && buf[end] == ' ' {
			end++
		}
		return success(end, Token{Kind: KindHeaderSep, Text: buf[pos:end]})
	})
}

// Method matches one of the supported request methods. Each alternative is
// tried from the same start position.
func Method() Matcher {
	return oneOf(KindMethod, "HTTP method is not supported", MethodGet, MethodPost)
}

// Protocol matches the supported protocol version.
func Protocol() Matcher {
	return oneOf(KindProtocol, "HTTP protocol unknown", HTTP11)
}

func oneOf(kind Kind, reason string, alts ...string) Matcher {
	lits := make([]Matcher, len(alts))
	for i, alt := range alts {
		lits[i] = Literal(alt)
	}
	return MatcherFunc(func(buf []byte, pos int) Result {
		for _, lit := range lits {
			if r := lit.Match(buf, pos); r.OK() {
				r.Token.Kind = kind
				return r
			}
		}
		return failure(pos, "%s", reason)
	})
}

func isVisible(b byte) bool   { return b >= 0x21 && b <= 0x7E }
func isPrintable(b byte) bool { return b >= 0x20 && b <= 0x7E }
func isDigit(b byte) bool     { return b >= '0' && b <= '9' }
func isSpace(b byte) bool     { return b == ' ' || b == '\t' }

func isHeaderName(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || isDigit(b) || b == '-'
}

func isField(b byte) bool {
	return isVisible(b) && b != '/' && b != '?' && b != '&' && b != '='
}
