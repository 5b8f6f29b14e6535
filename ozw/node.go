package ozw

// NodeState reports whether the native library believes the node is
// reachable.
type NodeState uint8

const (
	NodeAlive NodeState = iota
	NodeAwake
	NodeAsleep
	NodeDead
)

// Node is the native library's description of a physical mesh device. Value
// payloads are delivered separately through ValueAdded/ValueChanged events.
type Node struct {
	ID               NodeID
	Name             string
	ManufacturerID   string
	ManufacturerName string
	ProductType      string
	ProductID        string
	ProductName      string
	GenericType      string
	SpecificType     string
	State            NodeState
	CanWakeUp        bool
}
