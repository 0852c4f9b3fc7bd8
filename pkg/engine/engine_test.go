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

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackpulse/rackpulse/pkg/collector"
	"github.com/rackpulse/rackpulse/pkg/config"
	"github.com/rackpulse/rackpulse/pkg/metrics"
	"github.com/rackpulse/rackpulse/pkg/trend"
)

type stubCollector struct {
	name  string
	frag  *metrics.Fragment
	err   error
	calls int
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(_ context.Context) (*metrics.Fragment, error) {
	s.calls++
	return s.frag, s.err
}

type stubFactory struct {
	local      *stubCollector
	containers *stubCollector
	appliance  *stubCollector
}

func (f *stubFactory) CreateLocalCollector() collector.Collector     { return f.local }
func (f *stubFactory) CreateContainerCollector() collector.Collector { return f.containers }
func (f *stubFactory) CreateApplianceCollector() collector.Collector { return f.appliance }

func testFactory() *stubFactory {
	return &stubFactory{
		local: &stubCollector{name: "local", frag: &metrics.Fragment{
			Source: metrics.SourceLocal,
			Meta:   &metrics.Meta{Hostname: "node-1"},
			CPU: &metrics.CPU{
				UtilizationPct: 20,
				Origin:         metrics.CPUOrigin{Utilization: metrics.SourceLocal, Temperature: metrics.SourceSimulated},
			},
			Memory: &metrics.Memory{TotalBytes: 1000, UsedBytes: 400, Origin: metrics.SourceLocal},
			Network: &metrics.Network{
				PrimaryName: "eth0",
				Interfaces: []metrics.Interface{
					{Name: "eth0", RxBytesPerSec: 100, TxBytesPerSec: 50, Origin: metrics.SourceLocal},
				},
			},
			Storage: &metrics.Storage{
				Origin:  metrics.SourceLocal,
				Volumes: []metrics.Volume{{Name: "sda1", TotalBytes: 200, UsedBytes: 50}},
			},
		}},
		containers: &stubCollector{name: "containers", frag: &metrics.Fragment{
			Source: metrics.SourceContainer,
			Services: &metrics.Services{
				Origin: metrics.SourceContainer,
				Items:  []metrics.Service{{Name: "plex", State: "running", Running: true}},
			},
		}},
		appliance: &stubCollector{name: "appliance", frag: &metrics.Fragment{
			Source: metrics.SourceAppliance,
			CPU: &metrics.CPU{
				UtilizationPct: 65,
				PerCoreLoad:    []float64{60, 70},
				Origin:         metrics.CPUOrigin{Utilization: metrics.SourceAppliance},
			},
		}},
	}
}

func testEngineConfig() *config.Config {
	return &config.Config{
		CollectInterval: 10 * time.Millisecond,
		TrendCapacity:   16,
	}
}

func TestEngineCollectMergesSources(t *testing.T) {
	f := testFactory()
	e := New(testEngineConfig(), f)

	snap, err := e.CurrentSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "node-1", snap.Meta.Hostname)
	assert.Equal(t, 65.0, snap.CPU.UtilizationPct, "appliance load overrides local")
	assert.Equal(t, metrics.SourceAppliance, snap.CPU.Origin.Utilization)
	require.Len(t, snap.Services.Items, 1)
	assert.Equal(t, "plex", snap.Services.Items[0].Name)
	assert.True(t, e.Ready())
}

func TestEngineCurrentSnapshotCollectsOnce(t *testing.T) {
	f := testFactory()
	e := New(testEngineConfig(), f)

	assert.False(t, e.Ready())

	first, err := e.CurrentSnapshot(context.Background())
	require.NoError(t, err)
	second, err := e.CurrentSnapshot(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second, "the cached snapshot is served without recollecting")
	assert.Equal(t, 1, f.local.calls)
}

func TestEngineAllSourcesFailed(t *testing.T) {
	f := &stubFactory{
		local:      &stubCollector{name: "local", err: assert.AnError},
		containers: &stubCollector{name: "containers", err: assert.AnError},
		appliance:  &stubCollector{name: "appliance", err: assert.AnError},
	}
	e := New(testEngineConfig(), f)

	snap, err := e.CurrentSnapshot(context.Background())
	assert.Nil(t, snap)
	assert.Error(t, err, "never a stale or empty snapshot")
	assert.False(t, e.Ready())
}

func TestEngineSingleSourceMissIsTolerated(t *testing.T) {
	f := testFactory()
	f.appliance = &stubCollector{name: "appliance", err: assert.AnError}
	e := New(testEngineConfig(), f)

	snap, err := e.CurrentSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20.0, snap.CPU.UtilizationPct, "local values stand when the appliance is absent")
}

func TestEngineAppendsTrendSamples(t *testing.T) {
	f := testFactory()
	e := New(testEngineConfig(), f)

	_, err := e.CurrentSnapshot(context.Background())
	require.NoError(t, err)

	series := e.Trends(0)
	require.Contains(t, series, trend.MetricCPUPct)
	require.Len(t, series[trend.MetricCPUPct].Points, 1)
	assert.Equal(t, 65.0, series[trend.MetricCPUPct].Current)
	assert.Equal(t, 40.0, series[trend.MetricMemoryPct].Current)
	assert.Equal(t, 25.0, series[trend.MetricDiskPct].Current)
	assert.Equal(t, 150.0, series[trend.MetricNetBps].Current)
}

func TestEngineRunTicks(t *testing.T) {
	f := testFactory()
	e := New(testEngineConfig(), f)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.True(t, e.Ready())
	assert.GreaterOrEqual(t, f.local.calls, 2, "the loop keeps collecting on its cadence")
}
