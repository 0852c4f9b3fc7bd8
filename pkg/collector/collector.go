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

	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// Collector gathers one source's partial view of the host.
type Collector interface {
	// Name identifies the source for logs and metrics.
	Name() string

	// Collect returns the source's current fragment. A nil fragment with a
	// non-nil error means the source is unavailable this cycle; the merge
	// layer treats the fragment as absent.
	Collect(ctx context.Context) (*metrics.Fragment, error)
}
