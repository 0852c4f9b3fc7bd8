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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectCyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rackpulse_collect_cycles_total",
			Help: "Total number of completed collection cycles",
		},
	)

	collectFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rackpulse_collect_failures_total",
			Help: "Total number of cycles where every source was unavailable",
		},
	)

	sourceUnavailableTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rackpulse_source_unavailable_total",
			Help: "Total number of per-source collection misses",
		},
		[]string{"source"},
	)

	collectDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rackpulse_collect_duration_seconds",
			Help:    "Collection cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
