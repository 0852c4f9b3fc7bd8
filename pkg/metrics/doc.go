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

// Package metrics defines the shared telemetry data model: the full
// hardware-health snapshot shape, the partial per-source fragments that feed
// it, raw appliance sensor readings, and field-level provenance markers.
//
// # Fragments and Snapshots
//
// Each telemetry source (local host, container runtime, remote appliance)
// produces a Fragment every collection cycle: a partial, source-tagged view
// of the overall shape. Fragments are immutable after creation; the merge
// layer combines the latest fragment from every source into one Snapshot.
//
// # Provenance
//
// Every region of the shape records where its values came from via Source
// markers. Provenance is tracked per field where sources can disagree: the
// CPU region, for example, can hold a real utilization reading next to a
// simulated temperature within the same merged snapshot.
//
// # Sensor Readings
//
// SensorReading is the normalized form of one raw appliance sensor row
// (temperature, fan, voltage, power, or status). Readings are classified
// into semantic buckets by the appliance package; the types here carry no
// classification logic.
package metrics
