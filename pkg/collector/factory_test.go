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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackpulse/rackpulse/pkg/appliance"
	"github.com/rackpulse/rackpulse/pkg/config"
)

func TestDefaultFactoryCreatesAllCollectors(t *testing.T) {
	cfg := &config.Config{DockerHost: "unix:///var/run/docker.sock"}
	factory := NewDefaultFactory(cfg, appliance.New(cfg))

	creators := []func() Collector{
		factory.CreateLocalCollector,
		factory.CreateContainerCollector,
		factory.CreateApplianceCollector,
	}
	names := []string{"local", "containers", "appliance"}

	for i, create := range creators {
		col := create()
		require.NotNil(t, col)
		assert.Equal(t, names[i], col.Name())
	}
}
