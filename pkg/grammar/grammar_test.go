// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grammar

import "testing"

func TestMatchers(t *testing.T) {
	tests := []struct {
		name    string
		m       Matcher
		input   string
		pos     int
		wantOK  bool
		wantTok string
		wantPos int
	}{
		{"literal match", Literal("GET"), "GET /", 0, true, "GET", 3},
		{"literal mismatch", Literal("GET"), "GEX /", 0, false, "", 0},
		{"literal short input", Literal("HTTP/1.1"), "HTTP/1", 0, false, "", 0},
		{"end at end", End(), "abc", 3, true, "", 3},
		{"end before end", End(), "abc", 2, false, "", 2},
		{"word stops at space", Word(), "/index.html HTTP/1.1", 0, true, "/index.html", 11},
		{"word empty", Word(), " x", 0, false, "", 0},
		{"header name", HeaderName(), "X-Forwarded-For: a", 0, true, "X-Forwarded-For", 15},
		{"header name rejects underscore", HeaderName(), "_x", 0, false, "", 0},
		{"header value keeps spaces", HeaderValue(), "a b c\r\n", 0, true, "a b c", 5},
		{"digits", Digits(), "123abc", 0, true, "123", 3},
		{"digits none", Digits(), "abc", 0, false, "", 0},
		{"space and tab", Space(), " \t x", 0, true, " \t ", 3},
		{"space none", Space(), "x", 0, false, "", 0},
		{"field stops at equals", Field(), "key=value", 0, true, "key", 3},
		{"field stops at slash", Field(), "a/b", 0, true, "a", 1},
		{"header sep with spaces", HeaderSep(), ":   v", 0, true, ":   ", 4},
		{"header sep without space", HeaderSep(), ":v", 0, true, ":", 1},
		{"header sep missing colon", HeaderSep(), " v", 0, false, "", 0},
		{"method get", Method(), "GET /", 0, true, "GET", 3},
		{"method post", Method(), "POST /", 0, true, "POST", 4},
		{"method put", Method(), "PUT /", 0, false, "", 0},
		{"method at offset", Method(), "xxPOST", 2, true, "POST", 6},
		{"protocol", Protocol(), "HTTP/1.1\r\n", 0, true, "HTTP/1.1", 8},
		{"protocol 1.0", Protocol(), "HTTP/1.0\r\n", 0, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.m.Match([]byte(tt.input), tt.pos)
			if r.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v (reason %q)", r.OK(), tt.wantOK, r.Reason)
			}
			if !tt.wantOK {
				if r.Pos != tt.pos {
					t.Errorf("failed match moved position to %d, want %d", r.Pos, tt.pos)
				}
				if r.Reason == "" {
					t.Error("failed match has no reason")
				}
				return
			}
			if got := r.Token.String(); got != tt.wantTok {
				t.Errorf("token = %q, want %q", got, tt.wantTok)
			}
			if r.Pos != tt.wantPos {
				t.Errorf("pos = %d, want %d", r.Pos, tt.wantPos)
			}
		})
	}
}

func TestMethodAndProtocolReasons(t *testing.T) {
	if r := Method().Match([]byte("DELETE /"), 0); r.Reason != "HTTP method is not supported" {
		t.Errorf("Method reason = %q", r.Reason)
	}
	if r := Protocol().Match([]byte("HTTP/2"), 0); r.Reason != "HTTP protocol unknown" {
		t.Errorf("Protocol reason = %q", r.Reason)
	}
}

func TestTokenKinds(t *testing.T) {
	r := Method().Match([]byte("GET"), 0)
	if r.Token.Kind != KindMethod {
		t.Errorf("Method token kind = %v, want %v", r.Token.Kind, KindMethod)
	}
	r = Protocol().Match([]byte("HTTP/1.1"), 0)
	if r.Token.Kind != KindProtocol {
		t.Errorf("Protocol token kind = %v, want %v", r.Token.Kind, KindProtocol)
	}
}

func TestCursorSeq(t *testing.T) {
	c := NewCursor([]byte("GET / HTTP/1.1\r\n"))
	toks, ok := c.Seq(Method(), Space(), Word(), Space(), Protocol(), Literal("\r\n"))
	if !ok {
		t.Fatalf("Seq failed: %s", c.Reason())
	}
	if len(toks) != 6 {
		t.Fatalf("got %d tokens, want 6", len(toks))
	}
	if toks[0].String() != "GET" || toks[2].String() != "/" || toks[4].String() != "HTTP/1.1" {
		t.Errorf("unexpected tokens: %q %q %q", toks[0], toks[2], toks[4])
	}
	if !c.AtEnd() {
		t.Errorf("cursor not at end: pos %d", c.Pos())
	}
}

func TestCursorSeqShortCircuits(t *testing.T) {
	c := NewCursor([]byte("key&rest"))
	calls := 0
	counting := MatcherFunc(func(buf []byte, pos int) Result {
		calls++
		return Word().Match(buf, pos)
	})

	_, ok := c.Seq(Field(), Literal("="), counting)
	if ok {
		t.Fatal("Seq succeeded, want failure")
	}
	if calls != 0 {
		t.Errorf("matcher after the failing one was called %d times", calls)
	}
	// The successful Field match is kept; the cursor never rewinds.
	if c.Pos() != 3 {
		t.Errorf("pos = %d, want 3", c.Pos())
	}
	if c.Reason() != `expected "="` {
		t.Errorf("reason = %q", c.Reason())
	}
	if c.Line() != "&rest" {
		t.Errorf("line = %q", c.Line())
	}
}

func TestCursorLineStopsAtControl(t *testing.T) {
	c := NewCursor([]byte("bad line\r\nnext"))
	if got := c.Line(); got != "bad line" {
		t.Errorf("Line() = %q, want %q", got, "bad line")
	}
}

func TestCursorFailedMatchKeepsPosition(t *testing.T) {
	c := NewCursor([]byte("/templatex"))
	if _, ok := c.Match(Literal("/template")); !ok {
		t.Fatal("literal did not match")
	}
	before := c.Pos()
	if _, ok := c.Match(End()); ok {
		t.Fatal("End matched with input left")
	}
	if c.Pos() != before {
		t.Errorf("pos moved from %d to %d on failure", before, c.Pos())
	}
	if string(c.Rest()) != "x" {
		t.Errorf("Rest() = %q", c.Rest())
	}
}
