// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	errs "github.com/absmach/mserve/pkg/errors"
	"github.com/absmach/mserve/pkg/framer"
	"github.com/absmach/mserve/pkg/handler"
	"github.com/absmach/mserve/pkg/metrics"
	"github.com/absmach/mserve/pkg/parser"
	"github.com/absmach/mserve/pkg/response"
	"github.com/absmach/mserve/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Protocol is the value set in handler.Context.Protocol.
const Protocol = "http"

const tracerName = "github.com/absmach/mserve/pkg/parser/http"

// ErrVetoed is returned when the handler refuses a request.
var ErrVetoed = errors.New("request vetoed by handler")

// Config holds the HTTP parser configuration.
type Config struct {
	// BufferSize is the receive buffer capacity; a message must fit in it.
	BufferSize int

	// Logger for per-message events
	Logger *slog.Logger

	// Metrics is optional
	Metrics *metrics.Metrics

	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// Parser answers one HTTP/1.1 message per Parse call using a router.
type Parser struct {
	router  *router.Router
	size    int
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

var _ parser.Parser = (*Parser)(nil)

// NewParser creates a new HTTP parser dispatching to rt.
func NewParser(cfg Config, rt *router.Router) *Parser {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = framer.DefaultBufferSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}

	return &Parser{
		router:  rt,
		size:    cfg.BufferSize,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		tracer:  cfg.TracerProvider.Tracer(tracerName),
	}
}

// Parse frames one request from r, routes it and writes the response to w.
// Each call gets a fresh receive buffer, so the previous request's body is
// never overwritten while a handler may still hold it.
func (p *Parser) Parse(ctx context.Context, r io.Reader, w io.Writer, h handler.Handler, hctx *handler.Context) error {
	req, err := framer.New(r, p.size).Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		class := "transport"
		if errs.IsFraming(err) {
			class = "framing"
		}
		p.metrics.ObserveConnectionError(errs.Reason(err))
		p.logger.Debug("dropping connection",
			slog.String("session", hctx.SessionID),
			slog.String("remote", hctx.RemoteAddr),
			slog.String("class", class),
			slog.String("reason", errs.Reason(err)),
			slog.String("error", err.Error()))
		return err
	}
	start := time.Now()

	if err := h.OnRequest(ctx, hctx, req); err != nil {
		p.logger.Debug("request refused",
			slog.String("session", hctx.SessionID),
			slog.String("method", req.Method()),
			slog.String("target", req.Target()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrVetoed, err)
	}

	ctx, span := p.tracer.Start(ctx, "http.request",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method()),
			attribute.String("url.path", req.Target()),
			attribute.Int("http.request.body.size", len(req.Body())),
			attribute.String("mserve.session", hctx.SessionID),
		))
	defer span.End()

	res := response.New()
	route, result := p.router.Dispatch(req, res)
	span.SetAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", res.Status()),
	)
	if result == router.HandledError {
		span.SetStatus(codes.Error, response.StatusText(res.Status()))
	}

	last := req.Close()
	out, err := res.Encode(last)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if _, err := w.Write(out); err != nil {
		span.RecordError(err)
		return errs.New("write", hctx.SessionID, hctx.RemoteAddr, fmt.Errorf("%w: %w", errs.ErrTransport, err))
	}
	hctx.Requests++

	p.metrics.ObserveRequest(req.Method(), route, res.Status(), len(req.Body()), len(out), time.Since(start))
	p.logger.Debug("request served",
		slog.String("session", hctx.SessionID),
		slog.String("method", req.Method()),
		slog.String("target", req.Target()),
		slog.String("route", route),
		slog.Int("status", res.Status()),
		slog.Int("served", hctx.Requests))

	if err := h.OnResponse(ctx, hctx, req, route, res.Status()); err != nil {
		p.logger.Error("response notification error",
			slog.String("session", hctx.SessionID),
			slog.String("error", err.Error()))
	}

	if last {
		return io.EOF
	}
	return nil
}
