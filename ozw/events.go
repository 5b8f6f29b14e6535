package ozw

// NetworkState reports the native library's view of the mesh network.
type NetworkState uint8

const (
	NetworkStopped NetworkState = iota
	NetworkFailed
	NetworkStarted
	NetworkAwaked
	NetworkReady
)

func (s NetworkState) String() string {
	switch s {
	case NetworkStopped:
		return "Stopped"
	case NetworkFailed:
		return "Failed"
	case NetworkStarted:
		return "Started"
	case NetworkAwaked:
		return "Awaked"
	case NetworkReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// NodeAddedEvent is emitted when the mesh reports a new device, and again on
// startup for every device already part of the network.
type NodeAddedEvent struct {
	Node Node
}

// NodeUpdatedEvent is emitted when node level details (name, manufacturer
// identification) change after the initial add.
type NodeUpdatedEvent struct {
	Node Node
}

type NodeRemovedEvent struct {
	NodeID NodeID
}

// NodeStateEvent is emitted when a node transitions between alive, asleep
// and dead.
type NodeStateEvent struct {
	NodeID NodeID
	State  NodeState
}

type ValueAddedEvent struct {
	NodeID NodeID
	Value  Value
}

type ValueChangedEvent struct {
	NodeID NodeID
	Value  Value
}

type ValueRemovedEvent struct {
	NodeID  NodeID
	ValueID ValueID
}

type NetworkStateEvent struct {
	State NetworkState
}
