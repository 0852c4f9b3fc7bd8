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

// Package defaults provides centralized timeout constants for the daemon.
//
// This package defines timeout values used across the codebase. Centralizing
// these values ensures consistency and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Collector timeouts: for telemetry gathering
//   - Handler timeouts: for HTTP request processing
//   - Server timeouts: for HTTP server configuration
//   - CLI timeouts: for one-shot command runs
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/rackpulse/rackpulse/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorTimeout)
//	defer cancel()
package defaults
