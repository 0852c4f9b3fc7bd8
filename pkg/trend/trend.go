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

// Package trend implements the bounded in-memory time-series store. Each
// tracked metric owns a fixed-capacity ring buffer of samples; the oldest
// sample is evicted FIFO when capacity is exceeded. History is memory
// resident only and lost on restart.
package trend

import (
	"sync"
	"time"
)

// Metric names tracked by the collection loop.
const (
	MetricCPUPct    = "cpu_pct"
	MetricMemoryPct = "memory_pct"
	MetricDiskPct   = "disk_pct"
	MetricNetBps    = "net_bps"
)

// TrackedMetrics lists the metrics the engine appends every cycle, in
// presentation order.
func TrackedMetrics() []string {
	return []string{MetricCPUPct, MetricMemoryPct, MetricDiskPct, MetricNetBps}
}

// Point is one scalar sample.
type Point struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Value     float64   `json:"value" yaml:"value"`
}

// Series is the query result for one metric: the retained points in arrival
// order plus derived summary values.
type Series struct {
	Name    string  `json:"name" yaml:"name"`
	Points  []Point `json:"points" yaml:"points"`
	Current float64 `json:"current" yaml:"current"`
	Average float64 `json:"average" yaml:"average"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

// ring is a fixed-capacity FIFO buffer of points.
type ring struct {
	buf  []Point
	head int // index of the oldest point
	size int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]Point, capacity)}
}

func (r *ring) append(p Point) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = p
		r.size++
		return
	}
	// Full: overwrite the oldest slot and advance the head.
	r.buf[r.head] = p
	r.head = (r.head + 1) % len(r.buf)
}

// points returns retained samples oldest-first as a fresh slice.
func (r *ring) points() []Point {
	out := make([]Point, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// Store holds one ring buffer per tracked metric. Appends come from the
// collection loop; queries come from the API side. All methods are safe for
// concurrent use, and queries never mutate the underlying buffers.
type Store struct {
	mu       sync.RWMutex
	capacity int
	rings    map[string]*ring
	order    []string
}

// NewStore creates a Store with the given per-metric capacity and registers
// the named metrics. Rings are created once here; appends to unregistered
// metrics are ignored.
func NewStore(capacity int, metrics ...string) *Store {
	s := &Store{
		capacity: capacity,
		rings:    make(map[string]*ring, len(metrics)),
	}
	for _, name := range metrics {
		if _, ok := s.rings[name]; ok {
			continue
		}
		s.rings[name] = newRing(capacity)
		s.order = append(s.order, name)
	}
	return s
}

// Append records one sample for the named metric.
func (s *Store) Append(name string, ts time.Time, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rings[name]
	if !ok {
		return
	}
	r.append(Point{Timestamp: ts, Value: value})
}

// Series returns the retained series for one metric. A zero window returns
// the full retained history; a positive window restricts points to those
// newer than now-window. The read is non-destructive and repeatable.
func (s *Store) Series(name string, window time.Duration) (Series, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rings[name]
	if !ok {
		return Series{}, false
	}
	return summarize(name, filterWindow(r.points(), window, time.Now())), true
}

// All returns every tracked series keyed by metric name.
func (s *Store) All(window time.Duration) map[string]Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	out := make(map[string]Series, len(s.order))
	for _, name := range s.order {
		out[name] = summarize(name, filterWindow(s.rings[name].points(), window, now))
	}
	return out
}

func filterWindow(points []Point, window time.Duration, now time.Time) []Point {
	if window <= 0 {
		return points
	}
	cutoff := now.Add(-window)
	// Points are in arrival order; find the first one inside the window.
	for i, p := range points {
		if p.Timestamp.After(cutoff) {
			return points[i:]
		}
	}
	return points[:0]
}

func summarize(name string, points []Point) Series {
	s := Series{Name: name, Points: points}
	if len(points) == 0 {
		return s
	}
	s.Current = points[len(points)-1].Value
	s.Min = points[0].Value
	s.Max = points[0].Value
	var sum float64
	for _, p := range points {
		sum += p.Value
		if p.Value < s.Min {
			s.Min = p.Value
		}
		if p.Value > s.Max {
			s.Max = p.Value
		}
	}
	s.Average = sum / float64(len(points))
	return s
}
