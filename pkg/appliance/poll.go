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

package appliance

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// pollLoop acquires sensor and chassis data the push channel does not
// carry, on a fixed cadence, only while authenticated. The loop's context
// is cancelled synchronously with connection loss and the loop is restarted
// on successful re-authentication.
func (c *Client) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.SensorPollInterval)
	defer ticker.Stop()

	c.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx)
		}
	}
}

// pollOnce issues the two independent queries of one poll tick. They are
// correlated by request-id prefix and matched asynchronously; each response
// re-derives the sensor fragment on its own, without waiting for the other.
func (c *Client) pollOnce(ctx context.Context) {
	go c.pollChassis(ctx)
	go c.pollSensors(ctx)
}

func (c *Client) pollChassis(ctx context.Context) {
	start := time.Now()
	raw, err := c.call(ctx, methodChassisQuery, nil, idPrefixChassis)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("chassis query failed", "error", err)
		}
		return
	}
	pollDuration.WithLabelValues("chassis").Observe(time.Since(start).Seconds())

	var info chassisInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		droppedMessagesTotal.Inc()
		slog.Warn("malformed chassis payload dropped", "error", err)
		return
	}

	c.mu.Lock()
	c.chassis = &metrics.Chassis{
		IntrusionDetected: chassisFlag(info.Intrusion),
		PowerFault:        chassisFlag(info.PowerFault),
		DriveFault:        chassisFlag(info.DriveFault),
		CoolingFault:      chassisFlag(info.CoolingFault),
	}
	c.mu.Unlock()

	c.rebuildSensorFragment()
}

func (c *Client) pollSensors(ctx context.Context) {
	start := time.Now()
	raw, err := c.call(ctx, methodSensorsQuery, nil, idPrefixSensors)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("sensor query failed", "error", err)
		}
		return
	}
	pollDuration.WithLabelValues("sensors").Observe(time.Since(start).Seconds())

	var rows []sensorRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		droppedMessagesTotal.Inc()
		slog.Warn("malformed sensor payload dropped", "error", err)
		return
	}

	c.mu.Lock()
	c.readings = parseSensorRows(rows)
	c.mu.Unlock()

	c.rebuildSensorFragment()
}

// rebuildSensorFragment re-derives the poll-derived fragment from the last
// received sensor and chassis payloads and swaps the cache atomically.
func (c *Client) rebuildSensorFragment() {
	c.mu.Lock()
	readings := c.readings
	chassis := c.chassis
	c.lastPollAt = time.Now()
	c.mu.Unlock()

	d := deriveSensorMetrics(readings, chassis)

	frag := &metrics.Fragment{
		Source:      metrics.SourceAppliance,
		Power:       &d.power,
		Environment: &d.environment,
		Security:    &d.security,
	}
	if d.cpuTempC > 0 {
		frag.CPU = &metrics.CPU{
			TemperatureC: d.cpuTempC,
			Origin:       metrics.CPUOrigin{Temperature: metrics.SourceAppliance},
		}
	}
	c.sensors.Store(frag)
}
