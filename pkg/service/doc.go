// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package service provides the coordinators that wire together servers,
// parsers, routers and handlers.
//
// # Overview
//
// A coordinator combines:
//  1. Server (TCP acceptor)
//  2. Parser (HTTP/1.1 message pipeline)
//  3. Router (the fixed route table over a content store)
//  4. Handler (connection hooks)
//
// # Architecture
//
//	Application
//	     ↓
//	┌─────────────┐
//	│   Service   │  (Coordinator)
//	│ - HTTP      │
//	│ - Ops       │
//	└─────────────┘
//	     ↓
//	┌─────────────┐
//	│   Server    │  (Transport)
//	└─────────────┘
//	     ↓
//	┌─────────────┐
//	│   Parser    │  (Protocol) → Router → Content
//	└─────────────┘
//	     ↓
//	┌─────────────┐
//	│   Handler   │  (Hooks)
//	└─────────────┘
//
// # Ops Server
//
// OpsServer exposes an arbitrary net/http handler, such as the Prometheus
// exposition handler or the health checker, on its own port. It is not part
// of the served HTTP/1.1 core.
//
// # Example
//
//	svc, err := service.NewHTTP(service.HTTPConfig{
//		Port:       "3000",
//		ContentDir: "web",
//		Logger:     logger,
//	}, simple.New(logger))
//	if err != nil {
//		return err
//	}
//	return svc.Listen(ctx)
package service
