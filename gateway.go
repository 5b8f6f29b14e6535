package zwd

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/zwd/ozw"
	"github.com/shimmeringbee/zwd/rules"
)

// ErrNoDriver is returned by New when no native network library driver is
// provided. The integration cannot partially start without one.
var ErrNoDriver = errors.New("zwd: no z-wave driver provided")

type ZWaveGateway struct {
	driver ozw.Driver
	self   da.Device

	ctx       context.Context
	ctxCancel context.CancelFunc

	events       chan any
	capabilities map[da.Capability]any

	callbacks callbacks.AdderCaller
	nodeTable *zwdNodeTable

	schemas      []*rules.Schema
	deviceConfig *DeviceConfig
	platforms    *platformRegistry
	discovery    *discoveryRegistry

	// aggregators is keyed by primary value id. Only the driver loop
	// goroutine mutates it, readers take the lock.
	aggregators map[ozw.ValueID]*entityValues
	aggLock     *sync.RWMutex

	entities   map[EntityIdentifier]*attachedEntity
	entityLock *sync.RWMutex

	services   *ZWaveServices
	enumerator *ZWaveEnumerateDevice
	refresher  *zwdRefresher

	networkReadyWait     time.Duration
	networkReadyInterval time.Duration

	section persistence.Section
	logger  logwrap.Logger
}

type attachedEntity struct {
	entity Entity
	device da.Device
}

func New(driver ozw.Driver) (*ZWaveGateway, error) {
	if driver == nil {
		return nil, ErrNoDriver
	}

	schemas := rules.DefaultSchemas()
	if err := rules.CompileSchemas(schemas); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	g := &ZWaveGateway{
		driver: driver,

		ctx:       ctx,
		ctxCancel: cancel,

		events:       make(chan any, 100),
		capabilities: map[da.Capability]any{},

		callbacks: callbacks.Create(),
		nodeTable: newNodeTable(),

		schemas:      schemas,
		deviceConfig: NewDeviceConfig(),
		platforms:    newPlatformRegistry(),
		discovery:    newDiscoveryRegistry(),

		aggregators: map[ozw.ValueID]*entityValues{},
		aggLock:     &sync.RWMutex{},

		entities:   map[EntityIdentifier]*attachedEntity{},
		entityLock: &sync.RWMutex{},

		networkReadyWait:     NetworkReadyWaitSeconds * time.Second,
		networkReadyInterval: networkReadyPollInterval,

		logger: discardLogger(),
	}

	g.enumerator = &ZWaveEnumerateDevice{gateway: g, nodeTable: g.nodeTable}
	g.refresher = newRefresher(g)

	g.capabilities[capabilities.DeviceDiscoveryFlag] = &ZWaveDeviceDiscovery{gateway: g, eventSender: g}
	g.capabilities[capabilities.EnumerateDeviceFlag] = g.enumerator
	g.capabilities[capabilities.DeviceRemovalFlag] = ZWaveDeviceRemoval{gateway: g, nodeTable: g.nodeTable}
	g.services = &ZWaveServices{gateway: g}

	g.callbacks.Add(g.nodeAddedCallback)
	g.callbacks.Add(g.entityReadyCallback)
	g.nodeTable.callbacks = g.callbacks

	return g, nil
}

// WithDeviceConfig installs the static per entity override table. Must be
// called before Start.
func (g *ZWaveGateway) WithDeviceConfig(cfg *DeviceConfig) {
	if cfg != nil {
		g.deviceConfig = cfg
	}
}

// WithSchemas replaces the built in discovery schema set. Schemas must have
// been compiled. Must be called before Start.
func (g *ZWaveGateway) WithSchemas(schemas []*rules.Schema) {
	g.schemas = schemas
}

// WithPersistence provides the section used to remember nodes across
// restarts. Must be called before Start.
func (g *ZWaveGateway) WithPersistence(s persistence.Section) {
	g.section = s
}

// RegisterPlatform installs a platform factory for a component name,
// replacing the generic bridge for that component.
func (g *ZWaveGateway) RegisterPlatform(component string, factory PlatformFactory) {
	g.platforms.register(component, factory)
}

// Services exposes the host framework's service call surface.
func (g *ZWaveGateway) Services() *ZWaveServices {
	return g.services
}

func (g *ZWaveGateway) Start() error {
	controller := g.driver.ControllerNode()

	g.self = da.Device{
		Gateway:    g,
		Identifier: NodeIdentifier{NodeID: controller.ID},
		Capabilities: []da.Capability{
			capabilities.DeviceDiscoveryFlag,
		},
	}

	g.loadPersistedNodes()

	if err := g.driver.StartNetwork(g.ctx); err != nil {
		g.logger.LogError(g.ctx, "Failed to start Z-Wave network.", logwrap.Err(err))
		return err
	}

	g.sendEvent(NetworkStarted{})

	g.enumerator.Start()
	g.refresher.Start()

	go g.driverLoop()

	return nil
}

func (g *ZWaveGateway) Stop() error {
	err := g.driver.StopNetwork(g.ctx)

	g.enumerator.Stop()
	g.refresher.Stop()

	g.ctxCancel()
	g.sendEvent(NetworkStopped{})

	return err
}

func (g *ZWaveGateway) Capability(capability da.Capability) any {
	return g.capabilities[capability]
}

func (g *ZWaveGateway) Capabilities() []da.Capability {
	var caps []da.Capability

	for c := range g.capabilities {
		caps = append(caps, c)
	}

	return caps
}

func (g *ZWaveGateway) Self() da.Device {
	return g.self
}

func (g *ZWaveGateway) Devices() []da.Device {
	devices := []da.Device{g.self}

	g.entityLock.RLock()
	defer g.entityLock.RUnlock()

	for _, e := range g.entities {
		devices = append(devices, e.device)
	}

	return devices
}

// Entity returns the entity bridge attached under the given identifier.
func (g *ZWaveGateway) Entity(id EntityIdentifier) (Entity, bool) {
	g.entityLock.RLock()
	defer g.entityLock.RUnlock()

	e, found := g.entities[id]
	if !found {
		return nil, false
	}

	return e.entity, true
}

func (g *ZWaveGateway) nodeAddedCallback(ctx context.Context, e internalNodeAdded) error {
	g.persistNode(e.node)
	return nil
}

func (g *ZWaveGateway) entityReadyCallback(ctx context.Context, e internalEntityReady) error {
	g.dispatchDiscovery(ctx, e.values)
	return nil
}
