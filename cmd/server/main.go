package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"missionsuivi/internal/evaluation/binder"
	"missionsuivi/internal/evaluation/handler"
	evalmetrics "missionsuivi/internal/evaluation/metrics"
	"missionsuivi/internal/evaluation/refcache"
	"missionsuivi/internal/evaluation/report"
	"missionsuivi/internal/evaluation/service"
	jwttoken "missionsuivi/internal/jwt_token"
	"missionsuivi/internal/platform/config"
	"missionsuivi/internal/platform/httpserver"
	"missionsuivi/internal/platform/logger"
	httpmetrics "missionsuivi/internal/platform/metrics"
	"missionsuivi/internal/platform/middleware"
	"missionsuivi/pkg/platform/audit/publishers/compliance"
	"missionsuivi/pkg/platform/audit/publishers/ops"
	"missionsuivi/pkg/platform/middleware/metadata"
	"missionsuivi/pkg/platform/middleware/requesttime"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies, serves the router, and shuts down on SIGINT or
// SIGTERM. Business logic lives in internal/evaluation.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	evalMetrics := evalmetrics.New(reg)

	data, err := buildData(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer data.Close()

	auditSinks, err := buildAudit(ctx, cfg, data, log)
	if err != nil {
		return err
	}
	defer auditSinks.Close()

	tracker := ops.New(auditSinks.ops,
		ops.WithLogger(log),
		ops.WithMetrics(ops.NewMetrics(reg)),
	)
	defer func() {
		if err := tracker.Close(); err != nil {
			log.Warn("ops tracker close", "error", err)
		}
	}()

	cache := refcache.New(data.redisClient(), data.store,
		refcache.WithTTL(cfg.Redis.CacheTTL),
		refcache.WithLogger(log),
		refcache.WithMetrics(evalMetrics),
	)

	svc := service.New(service.Deps{
		Records:  data.store,
		Refs:     data.store,
		Cache:    cache,
		Binder:   binder.New(data.store, binder.WithLogger(log)),
		Tx:       data.tx,
		Guard:    data.guard,
		Renderer: report.NewRenderer(),
	},
		service.WithLogger(log),
		service.WithMetrics(evalMetrics),
		service.WithAuditPublisher(compliance.New(auditSinks.compliance,
			compliance.WithLogger(log),
			compliance.WithMetrics(compliance.NewMetrics(reg)),
		)),
		service.WithOpsTracker(tracker),
		service.WithReportTimeout(cfg.Server.ReportTimeout),
	)

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(httpmetrics.New(reg)))
	r.Use(middleware.Timeout(cfg.Server.ReportTimeout + 5*time.Second))

	r.Get("/health", healthHandler(data.checks()))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.New(svc, log, jwttoken.NewMiddlewareAdapter(jwtService)).Register(r)

	srv := httpserver.New(cfg.Server, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting missionsuivi",
			"addr", cfg.Server.Addr,
			"environment", cfg.Server.Environment,
			"soft_delete_tables", data.guard.Tables(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func logClose(log *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn("close failed", "resource", name, "error", err)
	}
}
