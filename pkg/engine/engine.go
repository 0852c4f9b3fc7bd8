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

// Package engine drives the periodic collect/merge/record cycle and caches
// the latest reconciled snapshot for the HTTP layer and the CLI.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rackpulse/rackpulse/pkg/collector"
	"github.com/rackpulse/rackpulse/pkg/config"
	apperrors "github.com/rackpulse/rackpulse/pkg/errors"
	"github.com/rackpulse/rackpulse/pkg/merge"
	"github.com/rackpulse/rackpulse/pkg/metrics"
	"github.com/rackpulse/rackpulse/pkg/trend"
)

// Engine runs the collection cycle: read every source's fragment, merge them
// into one snapshot, swap the cache, append the trend samples. Exactly one
// snapshot is live at a time.
type Engine struct {
	cfg        *config.Config
	local      collector.Collector
	containers collector.Collector
	appliance  collector.Collector
	trends     *trend.Store

	snapshot atomic.Pointer[metrics.Snapshot]

	// Serializes cycles: the ticker and an on-demand first collection must
	// never interleave trend appends.
	collectMu sync.Mutex
}

// New creates an engine with collectors from the factory and an empty trend
// history.
func New(cfg *config.Config, factory collector.Factory) *Engine {
	return &Engine{
		cfg:        cfg,
		local:      factory.CreateLocalCollector(),
		containers: factory.CreateContainerCollector(),
		appliance:  factory.CreateApplianceCollector(),
		trends:     trend.NewStore(cfg.TrendCapacity, trend.TrackedMetrics()...),
	}
}

// Run executes collection cycles on the configured cadence until the context
// is cancelled. A failed cycle is logged and the previous snapshot stands.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("collection loop started",
		"interval", e.cfg.CollectInterval.String(),
		"trendCapacity", e.cfg.TrendCapacity)

	ticker := time.NewTicker(e.cfg.CollectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("collection loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := e.collect(ctx); err != nil {
				slog.Warn("collection cycle failed", "error", err)
			}
		}
	}
}

// collect runs one full cycle. It fails only when every source is
// unavailable; a single absent source is normal operation.
func (e *Engine) collect(ctx context.Context) (*metrics.Snapshot, error) {
	e.collectMu.Lock()
	defer e.collectMu.Unlock()

	start := time.Now()
	local := e.gather(ctx, e.local)
	applianceFrag := e.gather(ctx, e.appliance)
	containerFrag := e.gather(ctx, e.containers)

	if local == nil && applianceFrag == nil && containerFrag == nil {
		collectFailuresTotal.Inc()
		return nil, apperrors.New(apperrors.ErrCodeUnavailable, "all telemetry sources failed")
	}

	snap := merge.Merge(local, applianceFrag, containerFrag, time.Now().UTC())
	e.snapshot.Store(snap)
	e.record(snap)

	collectCyclesTotal.Inc()
	collectDuration.Observe(time.Since(start).Seconds())
	return snap, nil
}

// gather reads one source, mapping failure to an absent fragment.
func (e *Engine) gather(ctx context.Context, col collector.Collector) *metrics.Fragment {
	frag, err := col.Collect(ctx)
	if err != nil {
		sourceUnavailableTotal.WithLabelValues(col.Name()).Inc()
		slog.Debug("source unavailable", "source", col.Name(), "error", err)
		return nil
	}
	return frag
}

// record appends one sample per tracked metric from the merged snapshot.
func (e *Engine) record(snap *metrics.Snapshot) {
	now := snap.Meta.CollectedAt
	e.trends.Append(trend.MetricCPUPct, now, snap.CPU.UtilizationPct)
	e.trends.Append(trend.MetricMemoryPct, now, snap.Memory.UsedPct())

	if len(snap.Storage.Volumes) > 0 {
		e.trends.Append(trend.MetricDiskPct, now, snap.Storage.Volumes[0].UsedPct())
	}
	if primary := snap.Network.Primary(); primary != nil {
		e.trends.Append(trend.MetricNetBps, now, primary.RxBytesPerSec+primary.TxBytesPerSec)
	}
}

// CurrentSnapshot returns the cached snapshot, performing one synchronous
// collection when none has been produced yet. It never serves a stale or
// empty placeholder: with all sources down the caller gets an explicit error.
func (e *Engine) CurrentSnapshot(ctx context.Context) (*metrics.Snapshot, error) {
	if snap := e.snapshot.Load(); snap != nil {
		return snap, nil
	}
	return e.collect(ctx)
}

// Ready reports whether a first snapshot has been produced.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Trends returns per-metric series summaries, optionally filtered to points
// newer than now minus the window. The query never consumes history.
func (e *Engine) Trends(window time.Duration) map[string]trend.Series {
	return e.trends.All(window)
}
