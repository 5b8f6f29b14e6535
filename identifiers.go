package zwd

import (
	"fmt"

	"github.com/shimmeringbee/zwd/ozw"
)

// NodeIdentifier identifies a whole mesh node, used for the gateway's self
// device.
type NodeIdentifier struct {
	NodeID ozw.NodeID
}

func (n NodeIdentifier) String() string {
	return fmt.Sprintf("ZWAVE-%d", n.NodeID)
}

// EntityIdentifier identifies one entity, derived from the owning node and
// the primary value. Stable across restarts.
type EntityIdentifier struct {
	NodeID  ozw.NodeID
	ValueID ozw.ValueID
}

func (e EntityIdentifier) String() string {
	return fmt.Sprintf("ZWAVE-%d-%d", e.NodeID, e.ValueID)
}
