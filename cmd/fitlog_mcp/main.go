// Package main runs the fitlog MCP server over stdio, exposing the fitness
// analytics as tools to local LLM clients. Stdout belongs to the transport,
// so logs go to stderr or the configured log file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/fitlog/internal/cache"
	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/fitness"
	fitnessmcp "github.com/2beens/fitlog/internal/fitness/mcp"
	"github.com/2beens/fitlog/internal/fitness/report"
	"github.com/2beens/fitlog/internal/fitness/store"
	"github.com/2beens/fitlog/internal/logging"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logsPath, err := pkg.ExpandHome(cfg.LogsPath)
	if err != nil {
		log.Fatalf("logs path: %v", err)
	}
	teardownLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      logsPath,
		LogToStdout:      false,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fitlog-mcp",
		Stdout:           os.Stderr,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	cancel()
	teardownLogs()

	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	defaultUnit, err := fitness.ParseWeightUnit(cfg.DefaultWeightUnit)
	if err != nil {
		return err
	}

	traceFile, err := pkg.ExpandHome(cfg.TraceFile)
	if err != nil {
		return fmt.Errorf("trace file: %w", err)
	}
	shutdownTracing, err := tracing.Setup(ctx, tracing.ProviderParams{
		ServiceName:  "fitlog-mcp",
		Environment:  cfg.Environment,
		Version:      fitnessmcp.ServerVersion,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		TraceFile:    traceFile,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		// ctx is already cancelled once the server stopped
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Errorf("tracing shutdown: %s", err)
		}
	}()

	metricsTextfile, err := pkg.ExpandHome(cfg.MetricsTextfile)
	if err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	registry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitlog", "mcp", registry)
	defer func() {
		if err := metrics.WriteTextfile(metricsTextfile, registry); err != nil {
			log.Errorf("metrics: %s", err)
		}
	}()

	profileStore, err := store.New(cfg.DataDirectory, metricsManager)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	reports := report.NewService(report.ServiceParams{
		Repo:     profileStore,
		Cache:    cache.New(cfg.CacheSizeMB, cacheTTL),
		CacheTTL: cacheTTL,
		Metrics:  metricsManager,
	})

	server := fitnessmcp.NewServer(reports, defaultUnit, metricsManager)

	log.Infof("fitlog mcp server starting, env [%s], data dir [%s]", cfg.Environment, profileStore.DataDir())
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	log.Infoln("fitlog mcp server stopped")
	return nil
}
