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

// Package config centralizes the engine's cadence constants and external
// configuration. Defaults match the historical hardcoded intervals; the
// environment can override them without changing default behavior.
package config

import (
	"fmt"
	"os"
	"time"
)

// Engine cadences. These are fixed operational constants, not per-call
// tunables: every timeout in the reconciliation engine derives from them.
const (
	// DefaultCollectInterval is the collector tick driving merge cycles.
	DefaultCollectInterval = 1 * time.Second

	// DefaultReconnectDelay is the fixed delay before re-dialing the
	// appliance after a transport loss. No exponential backoff: the
	// system favors fast recovery over backoff discipline.
	DefaultReconnectDelay = 5 * time.Second

	// DefaultSensorPollInterval is the cadence of the out-of-band
	// chassis/sensor poll sub-loop.
	DefaultSensorPollInterval = 15 * time.Second

	// DefaultCallTimeout bounds a single appliance RPC round-trip.
	DefaultCallTimeout = 5 * time.Second

	// DefaultTrendCapacity is the per-metric ring buffer size: one hour
	// of history at the default 1s collect interval.
	DefaultTrendCapacity = 3600
)

// AuthKind selects how the appliance credential is presented. Empty means
// auto-detect from the credential's shape.
type AuthKind string

const (
	AuthAuto     AuthKind = ""
	AuthAPIKey   AuthKind = "api-key"
	AuthPassword AuthKind = "password"
)

// Config holds engine configuration.
type Config struct {
	// Appliance endpoint, e.g. ws://nas.local/api/current. Empty disables
	// the appliance source; the merge layer falls back to local values.
	ApplianceURL string

	// ApplianceToken is the single credential slot: an opaque API key or
	// a base64 user:password pair, disambiguated per AuthKind.
	ApplianceToken string

	// ApplianceAuthKind bypasses credential-form sniffing when set.
	ApplianceAuthKind AuthKind

	// DockerHost is the container runtime endpoint. Defaults to the
	// local unix socket.
	DockerHost string

	// Cadences, defaulting to the constants above.
	CollectInterval    time.Duration
	ReconnectDelay     time.Duration
	SensorPollInterval time.Duration
	CallTimeout        time.Duration
	TrendCapacity      int
}

// New returns a Config with defaults applied and environment overrides
// parsed.
func New() *Config {
	cfg := &Config{
		DockerHost:         "unix:///var/run/docker.sock",
		CollectInterval:    DefaultCollectInterval,
		ReconnectDelay:     DefaultReconnectDelay,
		SensorPollInterval: DefaultSensorPollInterval,
		CallTimeout:        DefaultCallTimeout,
		TrendCapacity:      DefaultTrendCapacity,
	}

	// Override with environment variables if set
	if v := os.Getenv("RACKPULSE_APPLIANCE_URL"); v != "" {
		cfg.ApplianceURL = v
	}
	if v := os.Getenv("RACKPULSE_APPLIANCE_TOKEN"); v != "" {
		cfg.ApplianceToken = v
	}
	if v := os.Getenv("RACKPULSE_APPLIANCE_AUTH_KIND"); v != "" {
		switch AuthKind(v) {
		case AuthAPIKey, AuthPassword:
			cfg.ApplianceAuthKind = AuthKind(v)
		}
	}
	if v := os.Getenv("DOCKER_HOST"); v != "" {
		cfg.DockerHost = v
	}

	cfg.CollectInterval = durationEnv("RACKPULSE_COLLECT_INTERVAL", cfg.CollectInterval)
	cfg.ReconnectDelay = durationEnv("RACKPULSE_RECONNECT_DELAY", cfg.ReconnectDelay)
	cfg.SensorPollInterval = durationEnv("RACKPULSE_SENSOR_POLL_INTERVAL", cfg.SensorPollInterval)
	cfg.CallTimeout = durationEnv("RACKPULSE_CALL_TIMEOUT", cfg.CallTimeout)

	if v := os.Getenv("RACKPULSE_TREND_CAPACITY"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			cfg.TrendCapacity = n
		}
	}

	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
