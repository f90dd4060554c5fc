// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides Prometheus instrumentation for mserve.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for mserve. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Connection metrics
	ActiveConnections  prometheus.Gauge
	TotalConnections   *prometheus.CounterVec
	ConnectionDuration prometheus.Histogram
	ConnectionRequests prometheus.Histogram

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     prometheus.Histogram
	ResponseSize    prometheus.Histogram

	// Framing and transport failures that dropped a connection
	ConnectionErrors *prometheus.CounterVec
}

// New creates a new Metrics instance registered with reg. A nil reg
// registers with the Prometheus default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "mserve"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_connections",
				Help:      "Number of currently open client connections",
			},
		),
		TotalConnections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connections_total",
				Help:      "Total number of client connections by how they ended",
			},
			[]string{"status"},
		),
		ConnectionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "connection_duration_seconds",
				Help:      "Connection duration in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300, 600},
			},
		),
		ConnectionRequests: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "connection_requests",
				Help:      "Requests served per connection",
				Buckets:   []float64{1, 2, 5, 10, 50, 100, 1000},
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests answered",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time from a framed request to its written response",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RequestSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_size_bytes",
				Help:      "Request body size in bytes",
				Buckets:   []float64{0, 64, 256, 1024, 4096},
			},
		),
		ResponseSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "response_size_bytes",
				Help:      "Encoded response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
		),
		ConnectionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_errors_total",
				Help:      "Connections dropped because of a framing or transport error",
			},
			[]string{"reason"},
		),
	}
}

// ObserveConnection tracks a connection lifecycle. f reports the number of
// requests served and the error that ended the connection, if any.
func (m *Metrics) ObserveConnection(f func() (int, error)) error {
	if m == nil {
		_, err := f()
		return err
	}

	m.ActiveConnections.Inc()
	defer m.ActiveConnections.Dec()

	start := time.Now()
	served, err := f()
	m.ConnectionDuration.Observe(time.Since(start).Seconds())
	m.ConnectionRequests.Observe(float64(served))

	status := "closed"
	if err != nil {
		status = "error"
	}
	m.TotalConnections.WithLabelValues(status).Inc()

	return err
}

// ObserveRequest records one answered request.
func (m *Metrics) ObserveRequest(method, route string, status, reqSize, respSize int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
	m.RequestSize.Observe(float64(reqSize))
	m.ResponseSize.Observe(float64(respSize))
}

// ObserveConnectionError counts a connection dropped for reason.
func (m *Metrics) ObserveConnectionError(reason string) {
	if m == nil {
		return
	}
	m.ConnectionErrors.WithLabelValues(reason).Inc()
}

func statusLabel(code int) string {
	switch code {
	case 200:
		return "200"
	case 400:
		return "400"
	case 404:
		return "404"
	case 500:
		return "500"
	default:
		return "other"
	}
}
