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
	"fmt"
	"sort"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// SystemdUnits lists service units through the systemd D-Bus API. It backs
// the service inventory on hosts without a container runtime.
type SystemdUnits struct{}

// ListServiceUnits returns the loaded .service units as inventory entries,
// sorted by name for a stable panel order.
func (s *SystemdUnits) ListServiceUnits(ctx context.Context) ([]metrics.Service, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	items := unitsToServices(units)
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// unitsToServices filters the unit list down to loaded service units and
// maps their activation state into inventory entries.
func unitsToServices(units []dbus.UnitStatus) []metrics.Service {
	items := make([]metrics.Service, 0, len(units))
	for _, u := range units {
		if !strings.HasSuffix(u.Name, ".service") || u.LoadState != "loaded" {
			continue
		}
		items = append(items, metrics.Service{
			Name:    strings.TrimSuffix(u.Name, ".service"),
			State:   u.ActiveState,
			Running: u.ActiveState == "active",
		})
	}
	return items
}
