// Copyright (c) 2025, Rackpulse Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server implements the HTTP API the dashboard polls for reconciled
// telemetry.
//
// # Architecture
//
// The server is a stateless HTTP layer over the reconciliation engine's
// snapshot cache, with the following key components:
//
//   - Rate limiting using token bucket algorithm (golang.org/x/time/rate)
//   - Request ID tracking for distributed tracing
//   - Panic recovery for resilience
//   - Graceful shutdown handling
//   - Health and readiness probes
//   - Prometheus metrics at /metrics
//
// # Endpoints
//
//   - GET /v1/snapshot - latest reconciled snapshot (collects on demand when
//     no cached snapshot exists)
//   - GET /v1/trends - bounded trend history, optional ?window= filter
//   - GET /v1/status - storage appliance connection state
//   - GET /health - liveness probe, always healthy while serving
//   - GET /ready - readiness probe, 503 until a first snapshot exists
//   - GET /metrics - Prometheus exposition
//
// # Middleware Chain
//
// API endpoints pass through metrics, version negotiation, request ID,
// panic recovery, rate limiting, and request logging middleware, in that
// order. System endpoints (health, ready, metrics) are served directly.
//
// # Error Responses
//
// All errors share one JSON shape: code, message, optional details, the
// request ID, a timestamp, and a retryable hint so the dashboard can decide
// whether to back off or keep polling.
//
// # Version Negotiation
//
// Clients may request an API version via the Accept header using the vendor
// MIME type application/vnd.rackpulse.v1+json. The negotiated version is
// echoed in the X-API-Version response header.
//
// # Configuration
//
// NewConfig returns defaults; PORT and SHUTDOWN_TIMEOUT_SECONDS environment
// variables override the listen port and shutdown grace period.
package server
