package zwd

import (
	"fmt"
	"sync"
	"time"

	"github.com/shimmeringbee/zwd/ozw"
)

// Attribute keys projected by the entity bridge.
const (
	AttrNodeID         = "node_id"
	AttrPower          = "power_consumption"
	AttrBatteryLevel   = "battery_level"
	AttrWakeUpInterval = "wake_up_interval"
)

// Well known companion role names projected into attributes.
const (
	RolePower   = "power"
	RoleBattery = "battery"
)

// Entity is one controllable or observable device feature surfaced to the
// host framework, backed by an aggregated set of values.
type Entity interface {
	// Identifier is globally stable, derived from node id and the primary
	// value's address.
	Identifier() EntityIdentifier
	// Name combines the node's display name with the primary value's label.
	Name() string
	// ShouldPoll is always false, state arrives by push from the native
	// library.
	ShouldPoll() bool
	// Available is false while the owning node is asleep or dead and no
	// data has been seen yet.
	Available() bool
	// Attributes projects well known companion values for display.
	Attributes() map[string]any
	// ValueAdded is invoked when a companion value fills a role after
	// creation.
	ValueAdded()
	// ValueChanged is invoked when an underlying value reports new data.
	ValueChanged()
}

// zwaveEntity is the base behaviour shared by all created entities.
type zwaveEntity struct {
	values *entityValues
	config EntityConfig

	seenDataMutex sync.RWMutex
	seenData      bool
}

func newZWaveEntity(values *entityValues, cfg EntityConfig) *zwaveEntity {
	return &zwaveEntity{
		values: values,
		config: cfg,
	}
}

func (z *zwaveEntity) Identifier() EntityIdentifier {
	return EntityIdentifier{
		NodeID:  z.values.node.id,
		ValueID: z.values.PrimarySnapshot().ID,
	}
}

func (z *zwaveEntity) Name() string {
	primary := z.values.PrimarySnapshot()
	return fmt.Sprintf("%s %s", z.values.node.displayName(), valueLabel(&primary))
}

func (z *zwaveEntity) ShouldPoll() bool {
	return false
}

func (z *zwaveEntity) Available() bool {
	state := z.values.node.nodeState()

	if state == ozw.NodeAsleep || state == ozw.NodeDead {
		z.seenDataMutex.RLock()
		defer z.seenDataMutex.RUnlock()

		return z.seenData
	}

	return true
}

func (z *zwaveEntity) Attributes() map[string]any {
	attrs := map[string]any{
		AttrNodeID: int(z.values.node.id),
	}

	if power, found := z.values.Snapshot(RolePower); found {
		attrs[AttrPower] = roundTo(power.Data.Number, power.Precision)
	}

	if battery, found := z.values.Snapshot(RoleBattery); found {
		attrs[AttrBatteryLevel] = int(battery.Data.Number)
	}

	if wakeup, found := z.values.node.valueByCommandClass(ozw.CommandClassWakeUp); found {
		attrs[AttrWakeUpInterval] = int(z.values.node.copyValue(wakeup).Data.Number)
	}

	return attrs
}

func (z *zwaveEntity) ValueAdded() {
	z.render()
}

func (z *zwaveEntity) ValueChanged() {
	z.seenDataMutex.Lock()
	z.seenData = true
	z.seenDataMutex.Unlock()

	if z.config.RefreshValue {
		z.values.gateway.refresher.Schedule(z.values.primary.ID, time.Duration(z.config.RefreshDelay)*time.Second)
	}

	z.render()
}

func (z *zwaveEntity) render() {
	z.values.gateway.sendEvent(EntityStateUpdate{Identifier: z.Identifier()})
}

// binarySensorEntity specialises the bridge for boolean sensors, honouring
// the invert_openclosed configuration key.
type binarySensorEntity struct {
	*zwaveEntity
}

func (b *binarySensorEntity) State() bool {
	state := b.values.PrimarySnapshot().Data.Bool

	if b.config.InvertOpenClose {
		return !state
	}

	return state
}

// sensorEntity specialises the bridge for numeric sensors.
type sensorEntity struct {
	*zwaveEntity
}

func (s *sensorEntity) State() float64 {
	primary := s.values.PrimarySnapshot()
	return roundTo(primary.Data.Number, primary.Precision)
}

func (s *sensorEntity) Units() string {
	return s.values.PrimarySnapshot().Units
}

// switchEntity specialises the bridge for binary actuators.
type switchEntity struct {
	*zwaveEntity
}

func (s *switchEntity) State() bool {
	return s.values.PrimarySnapshot().Data.Bool
}

var (
	_ Entity = (*zwaveEntity)(nil)
	_ Entity = (*binarySensorEntity)(nil)
	_ Entity = (*sensorEntity)(nil)
	_ Entity = (*switchEntity)(nil)
)
