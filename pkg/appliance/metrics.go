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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rackpulse_appliance_reconnects_total",
			Help: "Total number of appliance reconnect cycles",
		},
	)

	authFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rackpulse_appliance_auth_failures_total",
			Help: "Total number of rejected authentication attempts",
		},
	)

	droppedMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rackpulse_appliance_dropped_messages_total",
			Help: "Total number of malformed or uncorrelated messages dropped",
		},
	)

	pushUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rackpulse_appliance_push_updates_total",
			Help: "Total number of realtime push updates applied",
		},
	)

	stateGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rackpulse_appliance_state",
			Help: "Current connection state machine position (0=disconnected .. 5=subscribed)",
		},
	)

	pollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rackpulse_appliance_poll_duration_seconds",
			Help:    "Sensor poll round-trip latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)
