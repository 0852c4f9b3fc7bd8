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

package metrics

import "time"

// Source identifies where a metric value originated.
type Source string

const (
	// SourceLocal marks values read from the local host.
	SourceLocal Source = "local"
	// SourceAppliance marks values received from the remote appliance.
	SourceAppliance Source = "appliance"
	// SourceContainer marks values read from the container runtime.
	SourceContainer Source = "container"
	// SourceSimulated marks synthesized substitutes for values no real
	// source could supply.
	SourceSimulated Source = "simulated"
)

// Simulated reports whether the source is a synthesized substitute.
// An unset source counts as simulated: absence of provenance means the
// value was never backed by a real reading.
func (s Source) Simulated() bool {
	return s == SourceSimulated || s == ""
}

// Health is the derived health classification of a hardware component.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

// CPU holds processor metrics. Utilization and temperature carry separate
// provenance: the appliance push channel supplies load figures while the
// temperature arrives through the out-of-band sensor poll, so one can be
// real while the other stays simulated.
type CPU struct {
	UtilizationPct float64   `json:"utilizationPct" yaml:"utilizationPct"`
	PerCoreLoad    []float64 `json:"perCoreLoad,omitempty" yaml:"perCoreLoad,omitempty"`
	Cores          int       `json:"cores" yaml:"cores"`
	ModelName      string    `json:"modelName,omitempty" yaml:"modelName,omitempty"`
	TemperatureC   float64   `json:"temperatureC" yaml:"temperatureC"`
	Origin         CPUOrigin `json:"origin" yaml:"origin"`
}

// CPUOrigin records per-field provenance for the CPU region.
type CPUOrigin struct {
	Utilization Source `json:"utilization" yaml:"utilization"`
	Temperature Source `json:"temperature" yaml:"temperature"`
}

// Memory holds physical and swap memory totals.
type Memory struct {
	TotalBytes     uint64 `json:"totalBytes" yaml:"totalBytes"`
	UsedBytes      uint64 `json:"usedBytes" yaml:"usedBytes"`
	CachedBytes    uint64 `json:"cachedBytes,omitempty" yaml:"cachedBytes,omitempty"`
	SwapTotalBytes uint64 `json:"swapTotalBytes,omitempty" yaml:"swapTotalBytes,omitempty"`
	SwapUsedBytes  uint64 `json:"swapUsedBytes,omitempty" yaml:"swapUsedBytes,omitempty"`
	Origin         Source `json:"origin" yaml:"origin"`
}

// UsedPct returns used memory as a percentage of total, or 0 when the
// total is unknown.
func (m Memory) UsedPct() float64 {
	if m.TotalBytes == 0 {
		return 0
	}
	return float64(m.UsedBytes) / float64(m.TotalBytes) * 100
}

// Interface holds one network interface. Addressing fields are static
// (discovered locally); throughput, link state, and speed are dynamic and
// may be overlaid from the appliance.
type Interface struct {
	Name          string   `json:"name" yaml:"name"`
	Addresses     []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	MAC           string   `json:"mac,omitempty" yaml:"mac,omitempty"`
	LinkUp        bool     `json:"linkUp" yaml:"linkUp"`
	SpeedMbps     int      `json:"speedMbps,omitempty" yaml:"speedMbps,omitempty"`
	RxBytesPerSec float64  `json:"rxBytesPerSec" yaml:"rxBytesPerSec"`
	TxBytesPerSec float64  `json:"txBytesPerSec" yaml:"txBytesPerSec"`
	Origin        Source   `json:"origin" yaml:"origin"`
}

// Network holds the interface inventory. PrimaryName selects the interface
// whose throughput feeds the trend history.
type Network struct {
	Interfaces  []Interface `json:"interfaces" yaml:"interfaces"`
	PrimaryName string      `json:"primaryName,omitempty" yaml:"primaryName,omitempty"`
}

// Primary returns the primary interface, or nil when none is designated.
func (n Network) Primary() *Interface {
	for i := range n.Interfaces {
		if n.Interfaces[i].Name == n.PrimaryName {
			return &n.Interfaces[i]
		}
	}
	return nil
}

// Volume holds usage for one mounted filesystem or pool.
type Volume struct {
	Name       string `json:"name" yaml:"name"`
	Mountpoint string `json:"mountpoint,omitempty" yaml:"mountpoint,omitempty"`
	TotalBytes uint64 `json:"totalBytes" yaml:"totalBytes"`
	UsedBytes  uint64 `json:"usedBytes" yaml:"usedBytes"`
}

// UsedPct returns volume usage as a percentage of capacity.
func (v Volume) UsedPct() float64 {
	if v.TotalBytes == 0 {
		return 0
	}
	return float64(v.UsedBytes) / float64(v.TotalBytes) * 100
}

// Storage holds the volume inventory. The first volume is the primary one
// tracked in the trend history.
type Storage struct {
	Volumes []Volume `json:"volumes" yaml:"volumes"`
	Origin  Source   `json:"origin" yaml:"origin"`
}

// PSU holds the derived state of one power supply.
type PSU struct {
	Name      string  `json:"name" yaml:"name"`
	Health    Health  `json:"health" yaml:"health"`
	DrawWatts float64 `json:"drawWatts,omitempty" yaml:"drawWatts,omitempty"`
}

// Power holds system power metrics derived from appliance sensors, or
// simulated locally when no appliance is reachable.
type Power struct {
	ConsumptionWatts float64            `json:"consumptionWatts" yaml:"consumptionWatts"`
	Rails            map[string]float64 `json:"rails,omitempty" yaml:"rails,omitempty"`
	Supplies         []PSU              `json:"supplies,omitempty" yaml:"supplies,omitempty"`
	Origin           Source             `json:"origin" yaml:"origin"`
}

// FanLocation buckets a fan by what it cools.
type FanLocation string

const (
	FanCPU  FanLocation = "cpu"
	FanCase FanLocation = "case"
)

// Fan holds one fan reading.
type Fan struct {
	Name     string      `json:"name" yaml:"name"`
	RPM      float64     `json:"rpm" yaml:"rpm"`
	Location FanLocation `json:"location" yaml:"location"`
}

// Environment holds chassis thermal metrics.
type Environment struct {
	IntakeTempC  float64 `json:"intakeTempC" yaml:"intakeTempC"`
	ExhaustTempC float64 `json:"exhaustTempC" yaml:"exhaustTempC"`
	AmbientTempC float64 `json:"ambientTempC" yaml:"ambientTempC"`
	Fans         []Fan   `json:"fans,omitempty" yaml:"fans,omitempty"`
	Origin       Source  `json:"origin" yaml:"origin"`
}

// Security holds chassis security indicators.
type Security struct {
	ChassisIntrusion bool   `json:"chassisIntrusion" yaml:"chassisIntrusion"`
	PowerFault       bool   `json:"powerFault" yaml:"powerFault"`
	DriveFault       bool   `json:"driveFault" yaml:"driveFault"`
	Origin           Source `json:"origin" yaml:"origin"`
}

// Service holds one entry of the service inventory: a container reported by
// the runtime, or a host unit when the runtime is unavailable.
type Service struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Image     string `json:"image,omitempty" yaml:"image,omitempty"`
	ImageRepo string `json:"imageRepo,omitempty" yaml:"imageRepo,omitempty"`
	ImageTag  string `json:"imageTag,omitempty" yaml:"imageTag,omitempty"`
	State     string `json:"state" yaml:"state"`
	Running   bool   `json:"running" yaml:"running"`
}

// Services holds the service inventory.
type Services struct {
	Items  []Service `json:"items" yaml:"items"`
	Origin Source    `json:"origin" yaml:"origin"`
}

// Meta holds host identity metadata.
type Meta struct {
	Hostname    string    `json:"hostname" yaml:"hostname"`
	OS          string    `json:"os,omitempty" yaml:"os,omitempty"`
	UptimeSec   uint64    `json:"uptimeSec" yaml:"uptimeSec"`
	CollectedAt time.Time `json:"collectedAt" yaml:"collectedAt"`
}

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// Alert is a dashboard alert entry. The reconciliation engine carries the
// type for its consumers but never generates alerts itself.
type Alert struct {
	Severity AlertSeverity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
	At       time.Time     `json:"at" yaml:"at"`
}

// Snapshot is the full reconciled hardware-health shape. Exactly one live
// instance exists at a time; every collection cycle produces a new instance
// that atomically replaces the previous one.
type Snapshot struct {
	Meta        Meta        `json:"meta" yaml:"meta"`
	CPU         CPU         `json:"cpu" yaml:"cpu"`
	Memory      Memory      `json:"memory" yaml:"memory"`
	Network     Network     `json:"network" yaml:"network"`
	Storage     Storage     `json:"storage" yaml:"storage"`
	Power       Power       `json:"power" yaml:"power"`
	Environment Environment `json:"environment" yaml:"environment"`
	Security    Security    `json:"security" yaml:"security"`
	Services    Services    `json:"services" yaml:"services"`
	Alerts      []Alert     `json:"alerts" yaml:"alerts"`
}

// Fragment is a partial, source-tagged view of the snapshot shape produced
// by one adapter per collection cycle. Nil regions mean the source has
// nothing to say about them. Fragments are never mutated after creation.
type Fragment struct {
	Source      Source       `json:"source" yaml:"source"`
	Meta        *Meta        `json:"meta,omitempty" yaml:"meta,omitempty"`
	CPU         *CPU         `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Memory      *Memory      `json:"memory,omitempty" yaml:"memory,omitempty"`
	Network     *Network     `json:"network,omitempty" yaml:"network,omitempty"`
	Storage     *Storage     `json:"storage,omitempty" yaml:"storage,omitempty"`
	Power       *Power       `json:"power,omitempty" yaml:"power,omitempty"`
	Environment *Environment `json:"environment,omitempty" yaml:"environment,omitempty"`
	Security    *Security    `json:"security,omitempty" yaml:"security,omitempty"`
	Services    *Services    `json:"services,omitempty" yaml:"services,omitempty"`
}
