package rules

import "github.com/shimmeringbee/zwd/ozw"

// DefaultSchemas is the built in mapping from mesh values to host
// components. Order matters, the first schema whose primary rule accepts a
// value claims it.
func DefaultSchemas() []*Schema {
	return []*Schema{
		{
			Component: "binary_sensor",
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{ozw.CommandClassSensorBinary},
					Kind:         []ozw.ValueKind{ozw.KindBool},
				},
				"power": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassMeter},
					Optional:     true,
				},
				"battery": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassBattery},
					Optional:     true,
				},
			},
		},
		{
			Component: "lock",
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{ozw.CommandClassDoorLock},
					Kind:         []ozw.ValueKind{ozw.KindBool},
				},
				"access_control": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassAlarm},
					Index:        []uint8{9},
					Optional:     true,
				},
			},
		},
		{
			Component:           "fan",
			GenericDeviceClass:  []string{"switch_multilevel"},
			SpecificDeviceClass: []string{"fan_switch"},
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{ozw.CommandClassSwitchMultilevel},
					Genre:        []ozw.ValueGenre{ozw.GenreUser},
					Index:        []uint8{0},
				},
			},
		},
		{
			Component:          "light",
			GenericDeviceClass: []string{"switch_multilevel", "remote_switch"},
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{ozw.CommandClassSwitchMultilevel},
					Genre:        []ozw.ValueGenre{ozw.GenreUser},
					Index:        []uint8{0},
				},
				"dimming_duration": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassSwitchMultilevel},
					Index:        []uint8{5},
					Optional:     true,
				},
			},
		},
		{
			Component:          "cover",
			GenericDeviceClass: []string{"switch_multilevel", "entry_control"},
			SpecificDeviceClass: []string{
				"class_a_motor_control_switch",
				"class_b_motor_control_switch",
				"class_c_motor_control_switch",
				"motor_multiposition",
				"secure_barrier_addon",
			},
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{
						ozw.CommandClassSwitchMultilevel,
						ozw.CommandClassBarrierOperator,
					},
					Genre: []ozw.ValueGenre{ozw.GenreUser},
				},
			},
		},
		{
			Component: "climate",
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{ozw.CommandClassThermostatSetpoint},
				},
				"temperature": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassSensorMultilevel},
					Index:        []uint8{1},
					Optional:     true,
				},
				"mode": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassThermostatMode},
					Optional:     true,
				},
			},
		},
		{
			Component: "switch",
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{ozw.CommandClassSwitchBinary},
					Genre:        []ozw.ValueGenre{ozw.GenreUser},
					Kind:         []ozw.ValueKind{ozw.KindBool},
				},
				"power": {
					CommandClass: []ozw.CommandClass{ozw.CommandClassMeter},
					Optional:     true,
				},
			},
		},
		{
			Component: "sensor",
			// Meter values on a binary switch surface through the switch
			// schema's power role instead of a standalone sensor.
			Filter: `!(Value.CommandClass == 0x32 && Node.GenericType == "switch_binary")`,
			Values: map[string]ValueRule{
				RolePrimary: {
					CommandClass: []ozw.CommandClass{
						ozw.CommandClassSensorMultilevel,
						ozw.CommandClassMeter,
						ozw.CommandClassAlarm,
						ozw.CommandClassSensorAlarm,
						ozw.CommandClassBattery,
					},
					Genre: []ozw.ValueGenre{ozw.GenreUser},
				},
			},
		},
	}
}
