package api

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rackpulse/rackpulse/pkg/appliance"
	"github.com/rackpulse/rackpulse/pkg/collector"
	"github.com/rackpulse/rackpulse/pkg/config"
	"github.com/rackpulse/rackpulse/pkg/engine"
	"github.com/rackpulse/rackpulse/pkg/logging"
	"github.com/rackpulse/rackpulse/pkg/server"
)

const (
	name           = "rackpulse-api-server"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/rackpulse/rackpulse/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the daemon and blocks until SIGINT/SIGTERM.
// It configures logging, wires the engine and appliance session to the
// HTTP server, and handles graceful shutdown.
func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.SetDefaultStructuredLogger(name, version)

	return ServeContext(ctx)
}

// ServeContext runs the daemon until the context is cancelled. Logging is
// assumed to be configured by the caller.
func ServeContext(ctx context.Context) error {
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg := config.New()
	client := appliance.New(cfg)
	factory := collector.NewDefaultFactory(cfg, client)
	eng := engine.New(cfg, factory)

	srvCfg := server.NewConfig()
	srvCfg.Name = name
	srvCfg.Version = version
	srv := server.New(srvCfg, eng, client)

	g, ctx := errgroup.WithContext(ctx)

	if client.Configured() {
		g.Go(func() error { return client.Run(ctx) })
	} else {
		slog.Info("appliance not configured, serving local and container telemetry only")
	}

	g.Go(func() error { return eng.Run(ctx) })
	g.Go(func() error { return srv.Start(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
