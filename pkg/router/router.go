// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package router dispatches requests to an ordered list of routes.
package router

import (
	"github.com/absmach/mserve/pkg/content"
	"github.com/absmach/mserve/pkg/request"
	"github.com/absmach/mserve/pkg/response"
)

// Result is the outcome of offering a request to a route.
type Result int

const (
	// NoMatch means the route does not apply; the next route is tried.
	NoMatch Result = iota

	// Handled means the route produced its response.
	Handled

	// HandledError means the route applies but the request cannot be served
	// by it. The response already carries the error status and message.
	HandledError
)

// String returns a string representation of the result.
func (r Result) String() string {
	switch r {
	case NoMatch:
		return "no_match"
	case Handled:
		return "handled"
	case HandledError:
		return "handled_error"
	default:
		return "unknown"
	}
}

// Route is one endpoint. Serve inspects the raw target and the request and
// either returns NoMatch without touching res, or populates res.
type Route interface {
	Name() string
	Serve(target string, req *request.Request, res *response.Response) Result
}

// Router holds a fixed sequence of routes ending with the NotFound catch-all.
// It is immutable after construction and safe for concurrent use.
type Router struct {
	routes []Route
}

// New creates a router trying routes in the given order, then NotFound.
func New(routes ...Route) *Router {
	rs := make([]Route, 0, len(routes)+1)
	rs = append(rs, routes...)
	rs = append(rs, NotFound{})
	return &Router{routes: rs}
}

// Default creates the standard route table: index, template, upload and the
// catch-all, with documents loaded from store.
func Default(store content.Store, indexFile, templateFile string) *Router {
	return New(
		NewIndex(store, indexFile),
		NewTemplate(store, templateFile),
		Upload{},
	)
}

// Names returns the route names in evaluation order.
func (r *Router) Names() []string {
	names := make([]string, len(r.routes))
	for i, rt := range r.routes {
		names[i] = rt.Name()
	}
	return names
}

// Dispatch offers req to each route in order and returns the name of the
// route that handled it together with its result.
func (r *Router) Dispatch(req *request.Request, res *response.Response) (string, Result) {
	target := req.Target()
	for _, rt := range r.routes {
		if result := rt.Serve(target, req, res); result != NoMatch {
			return rt.Name(), result
		}
	}
	// The catch-all always handles; this is only reached by a broken route list.
	return NotFound{}.Name(), NotFound{}.Serve(target, req, res)
}

func badRequest(res *response.Response, hint string) Result {
	res.Reset()
	res.SetStatus(response.StatusBadRequest)
	res.SetContentType(response.ContentTypePlain)
	res.WriteString("The request is malformed: ")
	res.WriteString(hint)
	return HandledError
}

func internalServerError(res *response.Response, hint string) Result {
	res.Reset()
	res.SetStatus(response.StatusInternalServerError)
	res.SetContentType(response.ContentTypePlain)
	res.WriteString("Internal server error: ")
	res.WriteString(hint)
	return HandledError
}
