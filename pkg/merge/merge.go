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

// Package merge implements the field-level merge policy that reconciles the
// local, appliance, and container fragments into one snapshot.
//
// The policy arbitrates per field between authoritative appliance values,
// best-effort local values, and synthetic substitutes. Merging is a pure
// function of its three inputs: it never mutates a fragment, never waits on
// an in-flight round-trip, and produces identical output for identical
// input.
package merge

import (
	"time"

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// Merge reconciles the current fragments from the three sources into a new
// snapshot. Any fragment may be nil (source unavailable); the local fragment
// is the base and the others overlay it by the field-level precedence rules.
func Merge(local, appliance, container *metrics.Fragment, now time.Time) *metrics.Snapshot {
	snap := &metrics.Snapshot{
		Alerts: []metrics.Alert{},
	}

	if local != nil {
		snap.Meta = copyMeta(local.Meta)
		snap.CPU = copyCPU(local.CPU)
		snap.Memory = copyMemory(local.Memory)
		snap.Network = copyNetwork(local.Network)
		snap.Storage = copyStorage(local.Storage)
		snap.Power = copyPower(local.Power)
		snap.Environment = copyEnvironment(local.Environment)
		snap.Security = copySecurity(local.Security)
		snap.Services = copyServices(local.Services)
	}

	if appliance != nil {
		mergeMeta(&snap.Meta, appliance.Meta)
		mergeCPU(&snap.CPU, appliance.CPU)
		mergeMemory(&snap.Memory, appliance.Memory)
		mergeNetwork(&snap.Network, appliance.Network)
		mergeStorage(&snap.Storage, appliance.Storage)
		mergePower(&snap.Power, appliance.Power)
		mergeEnvironment(&snap.Environment, appliance.Environment)
		mergeSecurity(&snap.Security, appliance.Security)
	}

	// Container-derived service inventory always replaces the placeholder
	// wholesale; there is no partial merge of service lists.
	if container != nil && container.Services != nil {
		snap.Services = copyServices(container.Services)
	}

	snap.Meta.CollectedAt = now
	return snap
}

// mergeMeta overlays host identity: the appliance knows its canonical
// hostname and uptime better than local introspection does.
func mergeMeta(dst *metrics.Meta, src *metrics.Meta) {
	if src == nil {
		return
	}
	if src.Hostname != "" {
		dst.Hostname = src.Hostname
	}
	if src.OS != "" {
		dst.OS = src.OS
	}
	if src.UptimeSec > 0 {
		dst.UptimeSec = src.UptimeSec
	}
}

// mergeCPU applies the CPU precedence rules. Utilization and per-core load
// are taken from the appliance when present and non-empty. The temperature
// overrides only when its magnitude is greater than zero: a zero sensor
// reading means "not provided", not a true zero.
func mergeCPU(dst *metrics.CPU, src *metrics.CPU) {
	if src == nil {
		return
	}
	if len(src.PerCoreLoad) > 0 {
		dst.UtilizationPct = src.UtilizationPct
		dst.PerCoreLoad = append([]float64(nil), src.PerCoreLoad...)
		if src.Cores > 0 {
			dst.Cores = src.Cores
		}
		dst.Origin.Utilization = src.Origin.Utilization
	}
	if src.TemperatureC > 0 {
		dst.TemperatureC = src.TemperatureC
		dst.Origin.Temperature = src.Origin.Temperature
	}
}

// mergeMemory replaces the memory region wholesale when the appliance
// reports a positive total capacity.
func mergeMemory(dst *metrics.Memory, src *metrics.Memory) {
	if src == nil || src.TotalBytes == 0 {
		return
	}
	*dst = *src
}

// mergeNetwork overlays dynamic interface fields by name. Locally
// discovered addressing is static truth; throughput, link state, and speed
// are the appliance's to report. Appliance interfaces absent locally are
// appended as-is.
func mergeNetwork(dst *metrics.Network, src *metrics.Network) {
	if src == nil {
		return
	}
	byName := make(map[string]int, len(dst.Interfaces))
	for i := range dst.Interfaces {
		byName[dst.Interfaces[i].Name] = i
	}
	for _, nic := range src.Interfaces {
		i, ok := byName[nic.Name]
		if !ok {
			dst.Interfaces = append(dst.Interfaces, copyInterface(nic))
			continue
		}
		existing := &dst.Interfaces[i]
		existing.RxBytesPerSec = nic.RxBytesPerSec
		existing.TxBytesPerSec = nic.TxBytesPerSec
		existing.LinkUp = nic.LinkUp
		if nic.SpeedMbps > 0 {
			existing.SpeedMbps = nic.SpeedMbps
		}
		existing.Origin = nic.Origin
	}
	if dst.PrimaryName == "" {
		dst.PrimaryName = src.PrimaryName
	}
}

// mergeStorage replaces the volume inventory wholesale when the appliance
// supplies a real (non-simulated), non-empty one.
func mergeStorage(dst *metrics.Storage, src *metrics.Storage) {
	if src == nil || src.Origin.Simulated() || len(src.Volumes) == 0 {
		return
	}
	*dst = copyStoragePtr(src)
}

// mergePower replaces the power region wholesale, but only when the
// appliance fragment is marked non-simulated; otherwise the local synthetic
// values stand.
func mergePower(dst *metrics.Power, src *metrics.Power) {
	if src == nil || src.Origin.Simulated() {
		return
	}
	*dst = copyPowerPtr(src)
}

// mergeEnvironment follows the same wholesale rule as power.
func mergeEnvironment(dst *metrics.Environment, src *metrics.Environment) {
	if src == nil || src.Origin.Simulated() {
		return
	}
	*dst = copyEnvironmentPtr(src)
}

// mergeSecurity follows the same wholesale rule as power.
func mergeSecurity(dst *metrics.Security, src *metrics.Security) {
	if src == nil || src.Origin.Simulated() {
		return
	}
	*dst = *src
}
