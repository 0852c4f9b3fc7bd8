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

package merge

import "github.com/rackpulse/rackpulse/pkg/metrics"

// Deep-copy helpers. Fragments are immutable once published by their
// adapter, so the merged snapshot must never alias fragment-owned slices
// or maps.

func copyMeta(m *metrics.Meta) metrics.Meta {
	if m == nil {
		return metrics.Meta{}
	}
	return *m
}

func copyCPU(c *metrics.CPU) metrics.CPU {
	if c == nil {
		return metrics.CPU{}
	}
	out := *c
	out.PerCoreLoad = append([]float64(nil), c.PerCoreLoad...)
	return out
}

func copyMemory(m *metrics.Memory) metrics.Memory {
	if m == nil {
		return metrics.Memory{}
	}
	return *m
}

func copyInterface(n metrics.Interface) metrics.Interface {
	out := n
	out.Addresses = append([]string(nil), n.Addresses...)
	return out
}

func copyNetwork(n *metrics.Network) metrics.Network {
	if n == nil {
		return metrics.Network{}
	}
	out := metrics.Network{PrimaryName: n.PrimaryName}
	out.Interfaces = make([]metrics.Interface, 0, len(n.Interfaces))
	for _, nic := range n.Interfaces {
		out.Interfaces = append(out.Interfaces, copyInterface(nic))
	}
	return out
}

func copyStorage(s *metrics.Storage) metrics.Storage {
	if s == nil {
		return metrics.Storage{}
	}
	return copyStoragePtr(s)
}

func copyStoragePtr(s *metrics.Storage) metrics.Storage {
	out := metrics.Storage{Origin: s.Origin}
	out.Volumes = append([]metrics.Volume(nil), s.Volumes...)
	return out
}

func copyPower(p *metrics.Power) metrics.Power {
	if p == nil {
		return metrics.Power{}
	}
	return copyPowerPtr(p)
}

func copyPowerPtr(p *metrics.Power) metrics.Power {
	out := *p
	if p.Rails != nil {
		out.Rails = make(map[string]float64, len(p.Rails))
		for k, v := range p.Rails {
			out.Rails[k] = v
		}
	}
	out.Supplies = append([]metrics.PSU(nil), p.Supplies...)
	return out
}

func copyEnvironment(e *metrics.Environment) metrics.Environment {
	if e == nil {
		return metrics.Environment{}
	}
	return copyEnvironmentPtr(e)
}

func copyEnvironmentPtr(e *metrics.Environment) metrics.Environment {
	out := *e
	out.Fans = append([]metrics.Fan(nil), e.Fans...)
	return out
}

func copySecurity(s *metrics.Security) metrics.Security {
	if s == nil {
		return metrics.Security{}
	}
	return *s
}

func copyServices(s *metrics.Services) metrics.Services {
	if s == nil {
		return metrics.Services{}
	}
	out := metrics.Services{Origin: s.Origin}
	out.Items = append([]metrics.Service(nil), s.Items...)
	return out
}
