package rules

import "github.com/shimmeringbee/zwd/ozw"

// WorkaroundIgnore is the component name a workaround resolves to when the
// value must never become an entity.
const WorkaroundIgnore = "ignore"

// Workaround corrects a device that advertises values under the wrong
// command class, or advertises values that must not surface at all. Matched
// on manufacturer identification before generic schema resolution, a hit
// overrides the schema's declared component.
type Workaround struct {
	ManufacturerID string
	ProductType    string
	CommandClass   *ozw.CommandClass
	Component      string
}

func (w Workaround) matches(node ozw.Node, value ozw.Value) bool {
	if w.ManufacturerID != node.ManufacturerID {
		return false
	}

	if w.ProductType != node.ProductType {
		return false
	}

	if w.CommandClass != nil && *w.CommandClass != value.CommandClass {
		return false
	}

	return true
}

var (
	ccSensorAlarm  = ozw.CommandClassSensorAlarm
	ccSwitchBinary = ozw.CommandClassSwitchBinary
)

// deviceWorkarounds is ordered, the first matching entry wins.
var deviceWorkarounds = []Workaround{
	// Fibaro FGFS101 flood sensor, alarm reported under SensorAlarm rather
	// than SensorBinary.
	{ManufacturerID: "010f", ProductType: "0b00", CommandClass: &ccSensorAlarm, Component: "binary_sensor"},
	// Fibaro FGRGBW, binary switch value duplicates the multilevel channels.
	{ManufacturerID: "010f", ProductType: "0301", CommandClass: &ccSwitchBinary, Component: WorkaroundIgnore},
}

// WorkaroundComponent resolves the component override for a (node, value)
// pair, returning false when no workaround applies.
func WorkaroundComponent(node ozw.Node, value ozw.Value) (string, bool) {
	for _, w := range deviceWorkarounds {
		if w.matches(node, value) {
			return w.Component, true
		}
	}

	return "", false
}
