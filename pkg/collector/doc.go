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

// Package collector provides the adapter layer between telemetry sources and
// the reconciliation engine.
//
// # Overview
//
// Each source of truth is wrapped in a Collector that returns its partial
// view of the host as a fragment with per-field provenance. The engine reads
// all collectors once per cycle and hands their fragments to the merge layer.
//
// # Core Interface
//
// The Collector interface defines a single method for gathering data:
//
//	type Collector interface {
//	    Name() string
//	    Collect(ctx context.Context) (*metrics.Fragment, error)
//	}
//
// A collect error means the source is unavailable this cycle. That is not
// fatal: the merge layer treats the fragment as absent and the remaining
// sources stand in.
//
// # Factory Pattern
//
// The Factory interface enables dependency injection and testing by
// abstracting collector creation:
//
//	type Factory interface {
//	    CreateLocalCollector() Collector
//	    CreateContainerCollector() Collector
//	    CreateApplianceCollector() Collector
//	}
//
// # Available Collectors
//
// Local: reads the host through OS introspection (CPU load, memory, mounted
// volumes, interface inventory with throughput derived from counter deltas).
// Regions the OS cannot see, such as PSU state and chassis thermals, are
// filled with simulated placeholders and marked simulated so real appliance
// data always takes precedence in the merge.
//
// Containers: lists the container runtime's containers as the service
// inventory, normalizing image references into repository and tag. On hosts
// without a reachable runtime the systemd unit inventory stands in.
//
// Appliance: adapts the protocol client's cached fragments. Collect never
// performs a network round-trip; the client keeps its caches current on its
// own connection lifecycle.
package collector
