/*
Copyright © 2025 Rackpulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rackpulse/rackpulse/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the reconciliation engine and dashboard API",
		Description: `Run the telemetry daemon: the reconciliation engine collects from the
local host, the container runtime, and the storage appliance on a fixed
interval, and the HTTP API serves the reconciled snapshot, trend history,
and appliance connection status to the polling dashboard.

Configuration is taken from the environment:

  RACKPULSE_APPLIANCE_URL   websocket endpoint of the storage appliance
  RACKPULSE_APPLIANCE_TOKEN   API key for appliance authentication
  RACKPULSE_DOCKER_HOST     container runtime endpoint
  RACKPULSE_COLLECT_INTERVAL  collection interval (default 1s)
  PORT                      HTTP listen port (default 8080)`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return api.ServeContext(ctx)
		},
	}
}
