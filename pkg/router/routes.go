// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"fmt"
	"html"
	"strings"

	"github.com/absmach/mserve/pkg/content"
	"github.com/absmach/mserve/pkg/grammar"
	"github.com/absmach/mserve/pkg/request"
	"github.com/absmach/mserve/pkg/response"
	"github.com/absmach/mserve/pkg/template"
)

var (
	_ Route = (*Index)(nil)
	_ Route = (*Template)(nil)
	_ Route = Upload{}
	_ Route = NotFound{}
)

// Index serves GET / with a document describing the request.
type Index struct {
	store content.Store
	file  string
}

// NewIndex creates the index route rendering file from store.
func NewIndex(store content.Store, file string) *Index {
	return &Index{store: store, file: file}
}

func (ix *Index) Name() string { return "index" }

func (ix *Index) Serve(target string, req *request.Request, res *response.Response) Result {
	if req.Method() != grammar.MethodGet {
		return NoMatch
	}
	c := grammar.NewCursor([]byte(target))
	if _, ok := c.Seq(grammar.Literal("/"), grammar.End()); !ok {
		return NoMatch
	}

	doc, hint := load(ix.store, ix.file)
	if hint != "" {
		return internalServerError(res, hint)
	}

	vars := map[string]string{
		"method":      html.EscapeString(req.Method()),
		"target":      html.EscapeString(req.Target()),
		"protocol":    html.EscapeString(req.Protocol()),
		"headertable": headerTable(req.Header()),
	}

	res.SetStatus(response.StatusOK)
	res.SetContentType(response.ContentTypeHTML)
	res.WriteString(template.Render(doc, vars))
	return Handled
}

func headerTable(h request.Header) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	b.WriteString("<tr><th>Header</th><th>Value</th></tr>\n")
	h.Each(func(name, value string) {
		b.WriteString("<tr><td>")
		b.WriteString(html.EscapeString(name))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(value))
		b.WriteString("</td></tr>\n")
	})
	b.WriteString("</table>\n")
	return b.String()
}

// Template serves GET /template, using the query string as placeholder values.
type Template struct {
	store content.Store
	file  string
}

// NewTemplate creates the template route rendering file from store.
func NewTemplate(store content.Store, file string) *Template {
	return &Template{store: store, file: file}
}

func (tp *Template) Name() string { return "template" }

func (tp *Template) Serve(target string, req *request.Request, res *response.Response) Result {
	if req.Method() != grammar.MethodGet {
		return NoMatch
	}
	c := grammar.NewCursor([]byte(target))
	if _, ok := c.Match(grammar.Literal("/template")); !ok {
		return NoMatch
	}

	vars := map[string]string{}
	if _, ok := c.Match(grammar.Literal("?")); ok {
		if !parseQuery(c, vars) {
			return badRequest(res, "The query parameters are malformed")
		}
	} else if _, ok := c.Match(grammar.End()); !ok {
		return NoMatch
	}

	doc, hint := load(tp.store, tp.file)
	if hint != "" {
		return internalServerError(res, hint)
	}

	res.SetStatus(response.StatusOK)
	res.SetContentType(response.ContentTypeHTML)
	res.WriteString(template.Render(doc, vars))
	return Handled
}

// parseQuery reads key=value pairs separated by '&' up to the end of input.
// The first occurrence of a key wins.
func parseQuery(c *grammar.Cursor, vars map[string]string) bool {
	for {
		toks, ok := c.Seq(grammar.Field(), grammar.Literal("="), grammar.Field())
		if !ok {
			return false
		}
		if key := toks[0].String(); !has(vars, key) {
			vars[key] = html.EscapeString(toks[2].String())
		}
		if _, ok := c.Match(grammar.Literal("&")); !ok {
			break
		}
	}
	_, ok := c.Match(grammar.End())
	return ok
}

// Upload echoes the payload of POST /upload.
type Upload struct{}

func (Upload) Name() string { return "upload" }

func (Upload) Serve(target string, req *request.Request, res *response.Response) Result {
	c := grammar.NewCursor([]byte(target))
	if _, ok := c.Seq(grammar.Literal("/upload"), grammar.End()); !ok {
		return NoMatch
	}
	if req.Method() != grammar.MethodPost {
		return badRequest(res, "The '/upload' endpoint must be used with the POST method")
	}

	body := req.Body()
	res.SetStatus(response.StatusOK)
	res.SetContentType(response.ContentTypePlain)
	fmt.Fprintf(res, "Your payload has a size of %d bytes.\n", len(body))
	res.WriteString("-- Copy of payload --\n")
	res.Write(body)
	return Handled
}

// NotFound is the catch-all route. It handles every request.
type NotFound struct{}

func (NotFound) Name() string { return "not_found" }

func (NotFound) Serve(target string, req *request.Request, res *response.Response) Result {
	res.Reset()
	res.SetStatus(response.StatusNotFound)
	res.SetContentType(response.ContentTypePlain)
	fmt.Fprintf(res, "The requested endpoint '%s' with method '%s' could not be found.", target, req.Method())
	return Handled
}

// load returns the document, or a hint for the client when it is unusable.
func load(store content.Store, file string) (doc, hint string) {
	doc, err := store.Load(file)
	if err != nil {
		return "", fmt.Sprintf("Could not read file '%s'", file)
	}
	if doc == "" {
		return "", fmt.Sprintf("No bytes in file '%s'", file)
	}
	return doc, ""
}

func has(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}
