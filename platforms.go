package zwd

import "sync"

// PlatformFactory materialises an entity for a completed aggregator.
// Returning nil declines the device, the aggregator then keeps collecting
// and discovery is not fired.
type PlatformFactory func(values *entityValues, cfg EntityConfig) Entity

type platformRegistry struct {
	lock      *sync.RWMutex
	factories map[string]PlatformFactory
}

func newPlatformRegistry() *platformRegistry {
	r := &platformRegistry{
		lock:      &sync.RWMutex{},
		factories: map[string]PlatformFactory{},
	}

	r.register("binary_sensor", func(values *entityValues, cfg EntityConfig) Entity {
		return &binarySensorEntity{zwaveEntity: newZWaveEntity(values, cfg)}
	})
	r.register("sensor", func(values *entityValues, cfg EntityConfig) Entity {
		return &sensorEntity{zwaveEntity: newZWaveEntity(values, cfg)}
	})
	r.register("switch", func(values *entityValues, cfg EntityConfig) Entity {
		return &switchEntity{zwaveEntity: newZWaveEntity(values, cfg)}
	})

	return r
}

func (r *platformRegistry) register(component string, factory PlatformFactory) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.factories[component] = factory
}

// create builds the entity for a component. Components without a registered
// factory fall back to the generic bridge, which accepts any device.
func (r *platformRegistry) create(component string, values *entityValues, cfg EntityConfig) Entity {
	r.lock.RLock()
	factory, found := r.factories[component]
	r.lock.RUnlock()

	if !found {
		return newZWaveEntity(values, cfg)
	}

	return factory(values, cfg)
}
