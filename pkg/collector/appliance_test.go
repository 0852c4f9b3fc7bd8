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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

type fakeCache struct {
	configured bool
	frag       *metrics.Fragment
}

func (f *fakeCache) Configured() bool { return f.configured }

func (f *fakeCache) Fragment() (*metrics.Fragment, bool) {
	return f.frag, f.frag != nil
}

func TestApplianceCollectUnconfigured(t *testing.T) {
	a := NewAppliance(&fakeCache{})

	frag, err := a.Collect(context.Background())
	assert.Nil(t, frag)
	assert.Error(t, err)
}

func TestApplianceCollectNoDataYet(t *testing.T) {
	a := NewAppliance(&fakeCache{configured: true})

	frag, err := a.Collect(context.Background())
	assert.Nil(t, frag)
	assert.Error(t, err)
}

func TestApplianceCollectReturnsCachedFragment(t *testing.T) {
	want := &metrics.Fragment{
		Source: metrics.SourceAppliance,
		CPU:    &metrics.CPU{UtilizationPct: 12.5},
	}
	a := NewAppliance(&fakeCache{configured: true, frag: want})

	frag, err := a.Collect(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, frag, "the adapter passes the cached fragment through")
}
