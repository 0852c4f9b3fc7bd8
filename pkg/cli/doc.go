// Package cli implements the command-line interface for the rackpulse daemon.
//
// # Overview
//
// The rackpulse CLI runs the telemetry reconciliation daemon and provides a
// one-shot snapshot command for inspecting reconciled telemetry without a
// running server. It is designed for homelab and rack operators monitoring
// a host, its containers, and an attached storage appliance.
//
// # Commands
//
// serve - Run the daemon:
//
//	rackpulse serve
//
// Starts the reconciliation engine, the storage appliance session, and the
// HTTP API the dashboard polls. Blocks until SIGINT/SIGTERM.
//
// snapshot - Collect one reconciled snapshot:
//
//	rackpulse snapshot [--output FILE] [--format yaml|json|table]
//
// Collects a single snapshot from all configured telemetry sources and
// writes it to stdout or a file. Output defaults to stdout in YAML format.
//
// version - Print version information:
//
//	rackpulse version [--format yaml|json|table]
//
// Prints the build's version, commit, and date as stamped by ldflags.
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Formats
//
// YAML (default):
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// JSON:
//   - Machine-parseable, compact
//   - Suitable for programmatic consumption
//
// Table:
//   - Flattened key/value representation
//   - Suitable for terminal viewing
//
// # Environment Variables
//
//	LOG_LEVEL                   Set logging verbosity (debug, info, warn, error)
//	RACKPULSE_APPLIANCE_URL     Websocket endpoint of the storage appliance
//	RACKPULSE_APPLIANCE_TOKEN     API key for appliance authentication
//	RACKPULSE_DOCKER_HOST       Container runtime endpoint
//	RACKPULSE_COLLECT_INTERVAL  Collection interval (default 1s)
//	PORT                        HTTP listen port for serve (default 8080)
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
package cli
