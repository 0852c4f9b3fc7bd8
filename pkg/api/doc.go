// Package api provides the daemon entrypoint for the rackpulse service.
//
// This package acts as a thin wrapper around the reusable pkg/server package,
// wiring it to the reconciliation engine and the storage appliance session.
// It owns process lifecycle: signal handling, structured logging setup, and
// the errgroup that ties the engine loop, the appliance session, and the
// HTTP server together so a fatal error in one tears down the others.
//
// # Usage
//
// To start the daemon:
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/rackpulse/rackpulse/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The api layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Building the engine, collectors, and appliance client from environment
//     configuration
//   - Delegating HTTP serving to pkg/server
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - GET /v1/snapshot - latest reconciled snapshot
//   - GET /v1/trends   - bounded trend history
//   - GET /v1/status   - appliance connection state
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
package api
