package collector

import (
	"github.com/rackpulse/rackpulse/pkg/appliance"
	"github.com/rackpulse/rackpulse/pkg/config"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateLocalCollector() Collector
	CreateContainerCollector() Collector
	CreateApplianceCollector() Collector
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	cfg    *config.Config
	client *appliance.Client
}

// NewDefaultFactory creates a factory bound to the process configuration and
// the shared appliance protocol client.
func NewDefaultFactory(cfg *config.Config, client *appliance.Client) *DefaultFactory {
	return &DefaultFactory{cfg: cfg, client: client}
}

// CreateLocalCollector creates the host introspection collector.
func (f *DefaultFactory) CreateLocalCollector() Collector {
	return NewLocal()
}

// CreateContainerCollector creates the container runtime collector with a
// systemd unit-inventory fallback.
func (f *DefaultFactory) CreateContainerCollector() Collector {
	return NewContainers(f.cfg.DockerHost)
}

// CreateApplianceCollector creates the adapter over the protocol client's
// cached fragments.
func (f *DefaultFactory) CreateApplianceCollector() Collector {
	return NewAppliance(f.client)
}
