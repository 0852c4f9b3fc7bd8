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

package collector

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"

	apperrors "github.com/rackpulse/rackpulse/pkg/errors"
	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// Simulated placeholder values for the regions host introspection cannot
// read. The merge layer never lets these shadow real appliance data.
const (
	simulatedCPUTempC   = 42.0
	simulatedDrawWatts  = 180.0
	simulatedIntakeC    = 24.0
	simulatedExhaustC   = 36.0
	simulatedAmbientC   = 22.0
	simulatedCPUFanRPM  = 1600
	simulatedCaseFanRPM = 1100
)

// cpuTempMarkers select temperature sensors that belong to a CPU package.
var cpuTempMarkers = []string{"coretemp", "k10temp", "cpu_thermal", "cpu"}

// Local reads the host through OS introspection. Regions the OS cannot see
// (power, environment, security) are filled with simulated placeholders and
// marked as such, so the dashboard shape stays complete on plain hosts.
type Local struct {
	mu        sync.Mutex
	lastNetAt time.Time
	lastNet   map[string]psnet.IOCountersStat
}

// NewLocal creates the host introspection collector.
func NewLocal() *Local {
	return &Local{lastNet: make(map[string]psnet.IOCountersStat)}
}

// Name implements the Collector interface.
func (l *Local) Name() string {
	return "local"
}

// Collect gathers the host's current view. Individual probe failures leave
// that region absent; the collect fails outright only when both CPU and
// memory probes fail.
func (l *Local) Collect(ctx context.Context) (*metrics.Fragment, error) {
	frag := &metrics.Fragment{Source: metrics.SourceLocal}

	cpuErr := l.collectCPU(ctx, frag)
	memErr := l.collectMemory(ctx, frag)
	if cpuErr != nil && memErr != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "host introspection failed", cpuErr)
	}

	l.collectNetwork(ctx, frag)
	l.collectStorage(ctx, frag)
	l.collectMeta(ctx, frag)

	frag.Power = simulatedPower()
	frag.Environment = simulatedEnvironment()
	frag.Security = simulatedSecurity()
	return frag, nil
}

func (l *Local) collectCPU(ctx context.Context, frag *metrics.Fragment) error {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		slog.Warn("cpu probe failed", "error", err)
		return err
	}

	c := &metrics.CPU{Origin: metrics.CPUOrigin{Utilization: metrics.SourceLocal}}
	if len(total) > 0 {
		c.UtilizationPct = total[0]
	}
	if perCore, err := cpu.PercentWithContext(ctx, 0, true); err == nil {
		c.PerCoreLoad = perCore
		c.Cores = len(perCore)
	}
	if c.Cores == 0 {
		if n, err := cpu.CountsWithContext(ctx, true); err == nil {
			c.Cores = n
		}
	}
	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 {
		c.ModelName = info[0].ModelName
	}

	c.TemperatureC, c.Origin.Temperature = l.cpuTemperature(ctx)
	frag.CPU = c
	return nil
}

// cpuTemperature reads the hottest CPU package sensor, falling back to a
// simulated value when the host exposes none.
func (l *Local) cpuTemperature(ctx context.Context) (float64, metrics.Source) {
	sensors, err := host.SensorsTemperaturesWithContext(ctx)
	if err == nil {
		hottest := 0.0
		for _, s := range sensors {
			key := strings.ToLower(s.SensorKey)
			for _, marker := range cpuTempMarkers {
				if strings.Contains(key, marker) && s.Temperature > hottest {
					hottest = s.Temperature
				}
			}
		}
		if hottest > 0 {
			return hottest, metrics.SourceLocal
		}
	}
	return simulatedCPUTempC, metrics.SourceSimulated
}

func (l *Local) collectMemory(ctx context.Context, frag *metrics.Fragment) error {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		slog.Warn("memory probe failed", "error", err)
		return err
	}
	m := &metrics.Memory{
		TotalBytes:  vm.Total,
		UsedBytes:   vm.Used,
		CachedBytes: vm.Cached,
		Origin:      metrics.SourceLocal,
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		m.SwapTotalBytes = swap.Total
		m.SwapUsedBytes = swap.Used
	}
	frag.Memory = m
	return nil
}

// collectNetwork discovers the interface inventory with its static
// addressing and derives per-interface throughput from the counter delta
// since the previous collect. The first collect reports zero rates.
func (l *Local) collectNetwork(ctx context.Context, frag *metrics.Fragment) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		slog.Warn("interface probe failed", "error", err)
		return
	}
	counters, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		slog.Warn("interface counter probe failed", "error", err)
		counters = nil
	}

	now := time.Now()
	l.mu.Lock()
	elapsed := now.Sub(l.lastNetAt)
	prev := l.lastNet
	cur := make(map[string]psnet.IOCountersStat, len(counters))
	for _, c := range counters {
		cur[c.Name] = c
	}
	first := l.lastNetAt.IsZero()
	l.lastNet = cur
	l.lastNetAt = now
	l.mu.Unlock()

	net := &metrics.Network{}
	for _, iface := range ifaces {
		if isLoopback(iface) {
			continue
		}
		entry := metrics.Interface{
			Name:   iface.Name,
			MAC:    iface.HardwareAddr,
			LinkUp: hasFlag(iface, "up"),
			Origin: metrics.SourceLocal,
		}
		for _, addr := range iface.Addrs {
			entry.Addresses = append(entry.Addresses, addr.Addr)
		}
		if !first {
			entry.RxBytesPerSec, entry.TxBytesPerSec = counterRates(prev[iface.Name], cur[iface.Name], elapsed)
		}
		net.Interfaces = append(net.Interfaces, entry)
		if net.PrimaryName == "" && len(entry.Addresses) > 0 {
			net.PrimaryName = entry.Name
		}
	}
	frag.Network = net
}

// counterRates converts two counter observations into byte-per-second rates,
// treating counter resets as zero rather than negative throughput.
func counterRates(prev, cur psnet.IOCountersStat, elapsed time.Duration) (rx, tx float64) {
	if elapsed <= 0 {
		return 0, 0
	}
	secs := elapsed.Seconds()
	if cur.BytesRecv >= prev.BytesRecv {
		rx = float64(cur.BytesRecv-prev.BytesRecv) / secs
	}
	if cur.BytesSent >= prev.BytesSent {
		tx = float64(cur.BytesSent-prev.BytesSent) / secs
	}
	return rx, tx
}

func isLoopback(iface psnet.InterfaceStat) bool {
	return hasFlag(iface, "loopback") || iface.Name == "lo"
}

func hasFlag(iface psnet.InterfaceStat, flag string) bool {
	for _, f := range iface.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

func (l *Local) collectStorage(ctx context.Context, frag *metrics.Fragment) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		slog.Warn("partition probe failed", "error", err)
		return
	}

	st := &metrics.Storage{Origin: metrics.SourceLocal}
	seen := make(map[string]bool)
	for _, p := range parts {
		if seen[p.Device] {
			continue
		}
		seen[p.Device] = true
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		st.Volumes = append(st.Volumes, metrics.Volume{
			Name:       p.Device,
			Mountpoint: p.Mountpoint,
			TotalBytes: usage.Total,
			UsedBytes:  usage.Used,
		})
	}
	frag.Storage = st
}

func (l *Local) collectMeta(ctx context.Context, frag *metrics.Fragment) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		slog.Warn("host info probe failed", "error", err)
		return
	}
	frag.Meta = &metrics.Meta{
		Hostname:  info.Hostname,
		OS:        strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		UptimeSec: info.Uptime,
	}
}

func simulatedPower() *metrics.Power {
	return &metrics.Power{
		ConsumptionWatts: simulatedDrawWatts,
		Rails:            map[string]float64{"3.3v": 3.3, "5v": 5.0, "12v": 12.0},
		Supplies:         []metrics.PSU{{Name: "PSU1", Health: metrics.HealthHealthy}},
		Origin:           metrics.SourceSimulated,
	}
}

func simulatedEnvironment() *metrics.Environment {
	return &metrics.Environment{
		IntakeTempC:  simulatedIntakeC,
		ExhaustTempC: simulatedExhaustC,
		AmbientTempC: simulatedAmbientC,
		Fans: []metrics.Fan{
			{Name: "CPU Fan", RPM: simulatedCPUFanRPM, Location: metrics.FanCPU},
			{Name: "Case Fan", RPM: simulatedCaseFanRPM, Location: metrics.FanCase},
		},
		Origin: metrics.SourceSimulated,
	}
}

func simulatedSecurity() *metrics.Security {
	return &metrics.Security{Origin: metrics.SourceSimulated}
}
