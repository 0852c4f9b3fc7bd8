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

	apperrors "github.com/rackpulse/rackpulse/pkg/errors"
	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// fragmentCache is the slice of the protocol client the adapter needs.
type fragmentCache interface {
	Configured() bool
	Fragment() (*metrics.Fragment, bool)
}

// Appliance adapts the protocol client's cached fragments to the Collector
// interface. Collect never performs a network round-trip: the client keeps
// its caches current on its own schedule.
type Appliance struct {
	cache fragmentCache
}

// NewAppliance creates the adapter over the shared protocol client.
func NewAppliance(cache fragmentCache) *Appliance {
	return &Appliance{cache: cache}
}

// Name implements the Collector interface.
func (a *Appliance) Name() string {
	return "appliance"
}

// Collect returns the client's cached fragment. An unconfigured or
// not-yet-connected appliance is reported as unavailable, never as an empty
// fragment.
func (a *Appliance) Collect(_ context.Context) (*metrics.Fragment, error) {
	if !a.cache.Configured() {
		return nil, apperrors.New(apperrors.ErrCodeUnavailable, "appliance not configured")
	}
	frag, ok := a.cache.Fragment()
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeUnavailable, "no appliance data received yet")
	}
	return frag, nil
}
