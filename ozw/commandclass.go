package ozw

import "fmt"

// CommandClass is the protocol level category tag grouping related values on
// a node.
type CommandClass uint8

const (
	CommandClassBasic              CommandClass = 0x20
	CommandClassSwitchBinary       CommandClass = 0x25
	CommandClassSwitchMultilevel   CommandClass = 0x26
	CommandClassSensorBinary       CommandClass = 0x30
	CommandClassSensorMultilevel   CommandClass = 0x31
	CommandClassMeter              CommandClass = 0x32
	CommandClassThermostatMode     CommandClass = 0x40
	CommandClassThermostatSetpoint CommandClass = 0x43
	CommandClassDoorLock           CommandClass = 0x62
	CommandClassConfiguration      CommandClass = 0x70
	CommandClassAlarm              CommandClass = 0x71
	CommandClassLock               CommandClass = 0x76
	CommandClassBattery            CommandClass = 0x80
	CommandClassWakeUp             CommandClass = 0x84
	CommandClassAssociation        CommandClass = 0x85
	CommandClassVersion            CommandClass = 0x86
	CommandClassBarrierOperator    CommandClass = 0x66
	CommandClassSensorAlarm        CommandClass = 0x9c
)

func (c CommandClass) String() string {
	switch c {
	case CommandClassBasic:
		return "Basic"
	case CommandClassSwitchBinary:
		return "SwitchBinary"
	case CommandClassSwitchMultilevel:
		return "SwitchMultilevel"
	case CommandClassSensorBinary:
		return "SensorBinary"
	case CommandClassSensorMultilevel:
		return "SensorMultilevel"
	case CommandClassMeter:
		return "Meter"
	case CommandClassThermostatMode:
		return "ThermostatMode"
	case CommandClassThermostatSetpoint:
		return "ThermostatSetpoint"
	case CommandClassDoorLock:
		return "DoorLock"
	case CommandClassConfiguration:
		return "Configuration"
	case CommandClassAlarm:
		return "Alarm"
	case CommandClassLock:
		return "Lock"
	case CommandClassBattery:
		return "Battery"
	case CommandClassWakeUp:
		return "WakeUp"
	case CommandClassAssociation:
		return "Association"
	case CommandClassVersion:
		return "Version"
	case CommandClassBarrierOperator:
		return "BarrierOperator"
	case CommandClassSensorAlarm:
		return "SensorAlarm"
	default:
		return fmt.Sprintf("CommandClass(0x%02x)", uint8(c))
	}
}
