// Package app wires the process-wide services shared by the runners:
// config, logging, telemetry, the journal and the metrics sink.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/enemyradar/extension/internal/config"
	"github.com/enemyradar/extension/internal/influx"
	"github.com/enemyradar/extension/internal/logging"
	"github.com/enemyradar/extension/internal/otel"
	"github.com/enemyradar/extension/internal/overlay"
	"github.com/enemyradar/extension/internal/session"
	"github.com/enemyradar/extension/internal/storage"
)

// shutdownTimeout bounds the flushes done by Close.
const shutdownTimeout = 5 * time.Second

// Options selects where config and logs live.
type Options struct {
	// ConfigDir is searched for the config file.
	ConfigDir string
	// Name prefixes the log file.
	Name    string
	Version string
}

// App holds the shared services. Build it with Setup and release it with
// Close.
type App struct {
	Session *session.Context
	Logs    *logging.SlogManager
	Logger  *slog.Logger
	Config  overlay.Config
	Journal *storage.Journal
	Influx  *influx.Manager

	version string
	logFile *os.File
	otel    *otel.Provider
	gelf    *gelf.Writer
	zerolog *logging.TaskLogger
	closed  bool
}

// Setup loads config and brings up logging, telemetry, the journal backend
// and the metrics sink. Only an unknown storage type fails setup; every other
// service that cannot start is logged and left off.
func Setup(opts Options) (*App, error) {
	if opts.Name == "" {
		opts.Name = "enemyradar"
	}
	a := &App{
		Session: session.NewContext(time.Now()),
		Logs:    logging.NewSlogManager(),
		version: opts.Version,
	}

	cfgErr := config.Load(opts.ConfigDir)

	var warnings []error
	logsDir := viper.GetString("logsDir")
	if !filepath.IsAbs(logsDir) && opts.ConfigDir != "" {
		logsDir = filepath.Join(opts.ConfigDir, logsDir)
	}
	f, err := logging.OpenLogFile(logsDir, opts.Name, a.Session.StartedAt())
	if err != nil {
		warnings = append(warnings, err)
	} else {
		a.logFile = f
	}

	var logOut io.Writer
	if a.logFile != nil {
		logOut = a.logFile
	}

	var logProvider *sdklog.LoggerProvider
	if otelCfg := config.GetOTelConfig(); otelCfg.Enabled {
		oc := otel.FromConfig(otelCfg, logOut)
		oc.ServiceVersion = opts.Version
		p, err := otel.New(oc)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("otel: %w", err))
		} else {
			a.otel = p
			logProvider = p.LoggerProvider()
		}
	}

	setupOpts := []logging.SetupOption{logging.WithContext(a.Session.LogAttrs)}
	if gl := config.GetGraylogConfig(); gl.Enabled {
		w, err := logging.DialGELF(gl.Address, opts.Name)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("graylog: %w", err))
		} else {
			a.gelf = w
			setupOpts = append(setupOpts, logging.WithGELF(w))
		}
	}

	level := viper.GetString("logLevel")
	a.Logs.Setup(logOut, level, logProvider, setupOpts...)
	a.Logger = a.Logs.Logger()

	if cfgErr != nil {
		a.Logger.Warn("Failed to load config, using defaults", "error", cfgErr)
	} else {
		a.Logger.Info("Loaded config", "file", viper.ConfigFileUsed())
	}
	for _, w := range warnings {
		a.Logger.Warn("Service unavailable", "error", w)
	}

	taskOut := io.Writer(os.Stdout)
	if a.logFile != nil {
		taskOut = a.logFile
	}
	a.zerolog = logging.NewTaskLogger(logging.NewZerolog(taskOut, level, "scheduler"))

	if err := a.setupJournal(); err != nil {
		a.Close()
		return nil, err
	}
	a.setupInflux(logsDir, level, taskOut)
	a.Config = overlay.LoadConfig()

	a.Logger.Info("Services ready",
		"version", opts.Version,
		"journal", a.Journal.Enabled(),
		"influx", a.Influx != nil)
	return a, nil
}

func (a *App) setupJournal() error {
	cfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(cfg, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			a.Logger.Error("Failed to initialize storage backend, journal disabled", "type", cfg.Type, "error", err)
			backend = nil
		} else {
			a.Logger.Info("Storage backend initialized", "type", cfg.Type)
		}
	}
	a.Journal = storage.NewJournal(backend)
	return nil
}

func (a *App) setupInflux(logsDir, level string, out io.Writer) {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return
	}
	backup := filepath.Join(logsDir, fmt.Sprintf("influx_%s.gz", a.Session.StartedAt().Format("20060102_150405")))
	m := influx.NewManager(cfg, logging.NewZerolog(out, level, "influx"), backup)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := m.Connect(ctx); err != nil {
		a.Logger.Error("Failed to connect to InfluxDB, metrics disabled", "url", m.URL(), "error", err)
		return
	}
	a.Influx = m
}

// Dependencies returns the overlay collaborators backed by this App.
func (a *App) Dependencies() overlay.Dependencies {
	deps := overlay.Dependencies{
		Logger:     a.Logger,
		TaskLogger: a.zerolog,
		Session:    a.Session,
		Journal:    a.Journal,
		Version:    a.version,
	}
	if a.Influx != nil {
		deps.Metrics = a.Influx
	}
	return deps
}

// Close flushes and releases every service. The journal is closed by the
// overlay on shutdown, not here. Close is idempotent.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.Influx != nil {
		errs = append(errs, a.Influx.Close())
	}
	if a.Logs != nil {
		errs = append(errs, a.Logs.Flush(ctx))
	}
	if a.otel != nil {
		errs = append(errs, a.otel.Shutdown(ctx))
	}
	if a.gelf != nil {
		errs = append(errs, a.gelf.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
