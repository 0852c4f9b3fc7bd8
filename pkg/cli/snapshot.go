/*
Copyright © 2025 Rackpulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rackpulse/rackpulse/pkg/appliance"
	"github.com/rackpulse/rackpulse/pkg/collector"
	"github.com/rackpulse/rackpulse/pkg/config"
	"github.com/rackpulse/rackpulse/pkg/defaults"
	"github.com/rackpulse/rackpulse/pkg/engine"
	"github.com/rackpulse/rackpulse/pkg/serializer"
)

// applianceWarmup bounds how long a one-shot snapshot waits for the
// appliance session to deliver its first fragment.
const applianceWarmup = 5 * time.Second

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Collect one reconciled telemetry snapshot",
		Description: `Collect a single reconciled snapshot from all configured telemetry
sources and write it to stdout or a file:
  - local host introspection (CPU, memory, network, storage)
  - container runtime service inventory
  - storage appliance chassis and sensor telemetry (when configured)

Sources that are unavailable are skipped; their regions fall back to the
remaining sources or simulated placeholders. The snapshot can be output
in JSON, YAML, or table format.

# Examples

Snapshot to stdout as YAML:
  rackpulse snapshot

Snapshot to a file as JSON:
  rackpulse snapshot --format json --output snapshot.json`,
		Flags: []cli.Flag{
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CLISnapshotTimeout)
			defer cancel()

			cfg := config.New()
			client := appliance.New(cfg)
			factory := collector.NewDefaultFactory(cfg, client)
			eng := engine.New(cfg, factory)

			// Bring the appliance session up in the background so its
			// fragment can participate when configured.
			if client.Configured() {
				go func() { _ = client.Run(ctx) }()
				waitForApplianceFragment(ctx, client)
			}

			snap, err := eng.CurrentSnapshot(ctx)
			if err != nil {
				return err
			}

			w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if c, ok := w.(serializer.Closer); ok {
				defer c.Close()
			}
			return w.Serialize(ctx, snap)
		},
	}
}

func waitForApplianceFragment(ctx context.Context, client *appliance.Client) {
	deadline := time.NewTimer(applianceWarmup)
	defer deadline.Stop()
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		if _, ok := client.Fragment(); ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-tick.C:
		}
	}
}
