package zwd

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shimmeringbee/zwd/ozw"
	"golang.org/x/sync/semaphore"
)

const defaultRefreshConcurrency = 1

func newInternalNode(id ozw.NodeID, refreshConcurrency int64) *internalNode {
	return &internalNode{
		id:         id,
		mutex:      &sync.RWMutex{},
		values:     make(map[ozw.ValueID]*ozw.Value),
		refreshSem: semaphore.NewWeighted(refreshConcurrency),
	}
}

type internalNode struct {
	// Immutable, no locking required.
	id    ozw.NodeID
	mutex *sync.RWMutex

	// Mutable, locking must be obtained first.
	name             string
	manufacturerID   string
	manufacturerName string
	productType      string
	productID        string
	productName      string
	genericType      string
	specificType     string
	state            ozw.NodeState
	canWakeUp        bool

	// prePopulated marks a node known before this process started, polling
	// defaults differ for those.
	prePopulated bool
	enumerating  bool

	values map[ozw.ValueID]*ozw.Value

	refreshSem *semaphore.Weighted
}

func (n *internalNode) updateFromNode(zn ozw.Node) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.name = zn.Name
	n.manufacturerID = zn.ManufacturerID
	n.manufacturerName = zn.ManufacturerName
	n.productType = zn.ProductType
	n.productID = zn.ProductID
	n.productName = zn.ProductName
	n.genericType = zn.GenericType
	n.specificType = zn.SpecificType
	n.state = zn.State
	n.canWakeUp = zn.CanWakeUp
}

// snapshot returns the node as the native library shape, for schema and
// workaround matching.
func (n *internalNode) snapshot() ozw.Node {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return ozw.Node{
		ID:               n.id,
		Name:             n.name,
		ManufacturerID:   n.manufacturerID,
		ManufacturerName: n.manufacturerName,
		ProductType:      n.productType,
		ProductID:        n.productID,
		ProductName:      n.productName,
		GenericType:      n.genericType,
		SpecificType:     n.specificType,
		State:            n.state,
		CanWakeUp:        n.canWakeUp,
	}
}

func (n *internalNode) displayName() string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	if n.name != "" {
		return n.name
	}

	if n.manufacturerName != "" && n.productName != "" {
		return fmt.Sprintf("%s %s", n.manufacturerName, n.productName)
	}

	return fmt.Sprintf("Unknown Node %d", n.id)
}

func (n *internalNode) setName(name string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.name = name
}

func (n *internalNode) nodeState() ozw.NodeState {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return n.state
}

func (n *internalNode) setState(s ozw.NodeState) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.state = s
}

func (n *internalNode) storeValue(v ozw.Value) *ozw.Value {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if existing, found := n.values[v.ID]; found {
		*existing = v
		return existing
	}

	stored := v
	n.values[v.ID] = &stored
	return &stored
}

// copyValue clones a stored value under the node lock. The event loop
// updates stored values in place, host facing readers must copy rather
// than dereference directly.
func (n *internalNode) copyValue(v *ozw.Value) ozw.Value {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return *v
}

func (n *internalNode) value(id ozw.ValueID) (*ozw.Value, bool) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	v, found := n.values[id]
	return v, found
}

func (n *internalNode) removeValue(id ozw.ValueID) bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	_, found := n.values[id]
	if found {
		delete(n.values, id)
	}

	return found
}

// knownValues returns the node's values ordered by ascending value id, so
// that scans over already reported values are deterministic regardless of
// the order the mesh delivered them in.
func (n *internalNode) knownValues() []*ozw.Value {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	vals := make([]*ozw.Value, 0, len(n.values))
	for _, v := range n.values {
		vals = append(vals, v)
	}

	sort.Slice(vals, func(i, j int) bool {
		return vals[i].ID < vals[j].ID
	})

	return vals
}

// valueByCommandClassIndex finds the value of a command class at the given
// index, degrading to absence if the underlying store misbehaves mid
// iteration.
func (n *internalNode) valueByCommandClassIndex(cc ozw.CommandClass, index uint8) (*ozw.Value, bool) {
	vals := safeValues(n.knownValues)

	for _, v := range vals {
		if v.CommandClass == cc && v.Index == index {
			return v, true
		}
	}

	return nil, false
}

func (n *internalNode) valueByCommandClass(cc ozw.CommandClass) (*ozw.Value, bool) {
	vals := safeValues(n.knownValues)

	for _, v := range vals {
		if v.CommandClass == cc {
			return v, true
		}
	}

	return nil, false
}
