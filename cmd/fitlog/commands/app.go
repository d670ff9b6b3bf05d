package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitlog/internal/cache"
	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/fitness/report"
	"github.com/2beens/fitlog/internal/fitness/store"
	"github.com/2beens/fitlog/internal/logging"
	"github.com/2beens/fitlog/internal/render"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// app holds everything a single command run needs.
type app struct {
	cfg             *config.Config
	store           *store.Store
	reports         *report.Service
	renderer        *render.Renderer
	registry        *prometheus.Registry
	metricsTextfile string
	teardownLogs    func()
	shutdownTracing tracing.Shutdown
	now             func() time.Time
}

func (o *rootOptions) newApp() (_ *app, err error) {
	cfg, err := config.Load(o.env, o.configPath)
	if err != nil {
		return nil, err
	}

	logsPath, err := pkg.ExpandHome(cfg.LogsPath)
	if err != nil {
		return nil, err
	}
	teardownLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      logsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fitlog-cli",
		Stdout:           os.Stderr,
	})
	defer func() {
		if err != nil {
			teardownLogs()
		}
	}()

	log.Debugf("running in [%s] environment, data dir [%s]", cfg.Environment, cfg.DataDirectory)

	traceFile, err := pkg.ExpandHome(cfg.TraceFile)
	if err != nil {
		return nil, err
	}
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.ProviderParams{
		ServiceName:  "fitlog-cli",
		Environment:  cfg.Environment,
		Version:      Version,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
		TraceFile:    traceFile,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err != nil {
			shutdownTracingWithTimeout(shutdownTracing)
		}
	}()

	metricsTextfile, err := pkg.ExpandHome(cfg.MetricsTextfile)
	if err != nil {
		return nil, err
	}

	registry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitlog", "cli", registry)

	profileStore, err := store.New(cfg.DataDirectory, metricsManager)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		store: profileStore,
		reports: report.NewService(report.ServiceParams{
			Repo: profileStore,
			// a single cli run never asks for the same report twice
			Cache:   cache.Noop{},
			Metrics: metricsManager,
			Clock:   o.now,
		}),
		renderer:        render.New(o.out, cfg.DateFormat),
		registry:        registry,
		metricsTextfile: metricsTextfile,
		teardownLogs:    teardownLogs,
		shutdownTracing: shutdownTracing,
		now:             o.now,
	}, nil
}

// close flushes metrics and sentry events, it never fails the command.
func (a *app) close() {
	if err := metrics.WriteTextfile(a.metricsTextfile, a.registry); err != nil {
		log.Errorf("metrics: %s", err)
	}
	shutdownTracingWithTimeout(a.shutdownTracing)
	a.teardownLogs()
}

func shutdownTracingWithTimeout(shutdown tracing.Shutdown) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Errorf("tracing shutdown: %s", err)
	}
}

// afterWrite takes the scheduled backup, if one is due, and prunes old backups.
// Failures are reported but never undo the already saved entry.
func (a *app) afterWrite(ctx context.Context) {
	frequency, err := store.ParseBackupFrequency(a.cfg.BackupFrequency)
	if err != nil {
		log.Errorf("backup: %s", err)
		return
	}

	info, err := a.store.BackupIfDue(ctx, a.now(), frequency)
	if err != nil {
		log.Errorf("scheduled backup: %s", err)
		a.renderer.Warn("scheduled backup failed: %s", err)
		return
	}
	if info != nil {
		log.Infof("scheduled backup created: %s", info.Path)
	}

	removed, err := a.store.PruneBackups(ctx, a.cfg.MaxBackups)
	if err != nil {
		log.Errorf("prune backups: %s", err)
		a.renderer.Warn("removing old backups failed: %s", err)
	}
	if len(removed) > 0 {
		log.Debugf("removed %d old backups", len(removed))
	}
}

// runWithApp sets up the app for a single command run and tears it down after.
func (o *rootOptions) runWithApp(ctx context.Context, run func(ctx context.Context, a *app) error) error {
	a, err := o.newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := run(ctx, a); err != nil {
		log.Debugf("command failed: %s", err)
		return err
	}
	return nil
}
