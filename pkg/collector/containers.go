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
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/distribution/reference"

	apperrors "github.com/rackpulse/rackpulse/pkg/errors"
	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// dockerAPITimeout caps one runtime list call; the collect tick must never
// stall on a wedged daemon.
const dockerAPITimeout = 3 * time.Second

// containerSummary is the subset of the Docker Engine list response the
// inventory needs.
type containerSummary struct {
	ID    string   `json:"Id"`
	Names []string `json:"Names"`
	Image string   `json:"Image"`
	State string   `json:"State"`
}

// unitLister is the slice of the systemd inventory the fallback needs.
type unitLister interface {
	ListServiceUnits(ctx context.Context) ([]metrics.Service, error)
}

// Containers reads the service inventory from the container runtime, falling
// back to the systemd unit inventory on hosts without a reachable daemon.
type Containers struct {
	base   string
	client *http.Client
	units  unitLister
}

// NewContainers creates the runtime collector for the given endpoint:
// unix:///path, tcp://host:port, or http(s)://host:port.
func NewContainers(dockerHost string) *Containers {
	base, client := dockerTransport(dockerHost)
	return &Containers{
		base:   base,
		client: client,
		units:  &SystemdUnits{},
	}
}

// dockerTransport builds an HTTP client for the runtime endpoint. Unix
// sockets get a dedicated dialer with a placeholder authority.
func dockerTransport(dockerHost string) (string, *http.Client) {
	u, err := url.Parse(dockerHost)
	if err != nil || u.Scheme == "unix" || u.Scheme == "" {
		path := "/var/run/docker.sock"
		if err == nil && u.Path != "" {
			path = u.Path
		}
		client := &http.Client{
			Timeout: dockerAPITimeout,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return (&net.Dialer{}).DialContext(ctx, "unix", path)
				},
			},
		}
		return "http://docker", client
	}

	base := dockerHost
	if u.Scheme == "tcp" {
		base = "http://" + u.Host
	}
	return base, &http.Client{Timeout: dockerAPITimeout}
}

// Name implements the Collector interface.
func (c *Containers) Name() string {
	return "containers"
}

// Collect lists the runtime's containers as the service inventory. When the
// runtime is unreachable, the systemd unit inventory stands in so the
// dashboard's service panel never goes blank on plain hosts.
func (c *Containers) Collect(ctx context.Context) (*metrics.Fragment, error) {
	items, err := c.listContainers(ctx)
	if err != nil {
		slog.Debug("container runtime unavailable, using unit inventory", "error", err)
		units, unitErr := c.units.ListServiceUnits(ctx)
		if unitErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "no service inventory source reachable", err)
		}
		return &metrics.Fragment{
			Source:   metrics.SourceLocal,
			Services: &metrics.Services{Items: units, Origin: metrics.SourceLocal},
		}, nil
	}

	return &metrics.Fragment{
		Source:   metrics.SourceContainer,
		Services: &metrics.Services{Items: items, Origin: metrics.SourceContainer},
	}, nil
}

func (c *Containers) listContainers(ctx context.Context) ([]metrics.Service, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/containers/json?all=true", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runtime list returned %s", resp.Status)
	}

	var summaries []containerSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return nil, fmt.Errorf("decoding runtime list: %w", err)
	}

	items := make([]metrics.Service, 0, len(summaries))
	for _, s := range summaries {
		svc := metrics.Service{
			ID:      truncateID(s.ID),
			Name:    containerName(s),
			Image:   s.Image,
			State:   s.State,
			Running: s.State == "running",
		}
		svc.ImageRepo, svc.ImageTag = splitImage(s.Image)
		items = append(items, svc)
	}
	return items, nil
}

// containerName resolves the primary name, falling back to the short id for
// anonymous containers.
func containerName(s containerSummary) string {
	if len(s.Names) > 0 {
		return strings.TrimPrefix(s.Names[0], "/")
	}
	return truncateID(s.ID)
}

func truncateID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// splitImage normalizes an image reference into its familiar repository name
// and tag. Unparseable references keep the raw string as the repository.
func splitImage(image string) (repo, tag string) {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return image, ""
	}
	repo = reference.FamiliarName(named)
	if tagged, ok := reference.TagNameOnly(named).(reference.Tagged); ok {
		tag = tagged.Tag()
	}
	return repo, tag
}
