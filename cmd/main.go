// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absmach/mserve"
	"github.com/absmach/mserve/examples/simple"
	"github.com/absmach/mserve/pkg/health"
	"github.com/absmach/mserve/pkg/metrics"
	"github.com/absmach/mserve/pkg/service"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const maxGoroutines = 50000

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := mserve.NewConfig(env.Options{Prefix: mserve.EnvPrefix})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	m := metrics.New("mserve", nil)

	svc, err := service.NewHTTP(service.HTTPConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ContentDir:      cfg.ContentDir,
		IndexFile:       cfg.IndexFile,
		TemplateFile:    cfg.TemplateFile,
		BufferSize:      cfg.BufferSize,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
		Metrics:         m,
	}, simple.New(logger))
	if err != nil {
		logger.Error("failed to create HTTP service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g.Go(func() error {
		return svc.Listen(ctx)
	})

	if port := cfg.MetricsAddr(); port != "" {
		if err := startOpsServer(g, ctx, "metrics", cfg.Host, port, promhttp.Handler(), logger); err != nil {
			logger.Warn("metrics server not started", slog.String("error", err.Error()))
		}
	}

	if port := cfg.HealthAddr(); port != "" {
		checker := health.NewChecker(10 * time.Second)
		checker.Register("content", health.ContentCheck(svc.Store(), cfg.IndexFile, cfg.TemplateFile))
		checker.Register("goroutines", health.GoroutineCheck(maxGoroutines))

		if err := startOpsServer(g, ctx, "health", cfg.Host, port, checker.Handler(), logger); err != nil {
			logger.Warn("health server not started", slog.String("error", err.Error()))
		}
	}

	logger.Info("mserve started",
		slog.String("port", cfg.Port),
		slog.String("content_dir", cfg.ContentDir),
		slog.Any("routes", svc.Routes()))

	// Signal handler
	g.Go(func() error {
		return StopSignalHandler(ctx, cancel, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("mserve terminated with error: %s", err))
		os.Exit(1)
	}
	logger.Info("mserve stopped")
}

func startOpsServer(g *errgroup.Group, ctx context.Context, name, host, port string, h http.Handler, logger *slog.Logger) error {
	srv, err := service.NewOps(service.OpsConfig{
		Name:    name,
		Host:    host,
		Port:    port,
		Handler: h,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	g.Go(func() error {
		return srv.Listen(ctx)
	})
	return nil
}

// setupLogger creates a structured logger with the specified level and format.
func setupLogger(level, format string) *slog.Logger {
	// Config validation has already rejected unknown levels.
	logLevel, _ := mserve.ParseLevel(level)

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) error {
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	select {
	case sig := <-c:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
		return nil
	case <-ctx.Done():
		return nil
	}
}
