package zwd

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/logwrap"
)

// discoveryRegistry maps discovery handles to aggregator instances so the
// host framework can call back asynchronously. Handles are random and never
// reused within a process lifetime.
type discoveryRegistry struct {
	lock    *sync.Mutex
	pending map[string]*entityValues
}

func newDiscoveryRegistry() *discoveryRegistry {
	return &discoveryRegistry{
		lock:    &sync.Mutex{},
		pending: map[string]*entityValues{},
	}
}

func (r *discoveryRegistry) register(values *entityValues) string {
	r.lock.Lock()
	defer r.lock.Unlock()

	handle := uuid.New().String()
	r.pending[handle] = values

	return handle
}

func (r *discoveryRegistry) lookup(handle string) *entityValues {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.pending[handle]
}

func (r *discoveryRegistry) removeByValues(values *entityValues) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for handle, ev := range r.pending {
		if ev == values {
			delete(r.pending, handle)
		}
	}
}

// dispatchDiscovery publishes an entity creation request to the host
// framework. The host answers by calling SetupPlatform with the handle.
func (g *ZWaveGateway) dispatchDiscovery(ctx context.Context, values *entityValues) {
	handle := g.discovery.register(values)

	g.logger.LogInfo(ctx, "Dispatching entity discovery.",
		logwrap.Datum("Component", values.component),
		logwrap.Datum("Handle", handle),
		logwrap.Datum("NodeID", values.node.id.String()))

	g.sendEvent(EntityDiscovered{
		Component: values.component,
		Handle:    handle,
	})
}

// SetupPlatform is the host framework's platform setup callback. It resolves
// the handle from an EntityDiscovered event and attaches the prepared entity
// bridge, returning the created device. Unknown handles are an error and
// create nothing.
func (g *ZWaveGateway) SetupPlatform(ctx context.Context, handle string) (da.Device, error) {
	values := g.discovery.lookup(handle)
	if values == nil || values.entity == nil {
		return da.Device{}, fmt.Errorf("unknown discovery handle: %s", handle)
	}

	entity := values.entity

	device := da.Device{
		Gateway:    g,
		Identifier: entity.Identifier(),
		Capabilities: []da.Capability{
			capabilities.EnumerateDeviceFlag,
			capabilities.DeviceRemovalFlag,
		},
	}

	g.entityLock.Lock()
	g.entities[entity.Identifier()] = &attachedEntity{entity: entity, device: device}
	g.entityLock.Unlock()

	g.sendEvent(da.DeviceAdded{Device: device})

	return device, nil
}
