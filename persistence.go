package zwd

import (
	"fmt"
	"strconv"

	"github.com/shimmeringbee/zwd/ozw"
)

const nodeSectionName = "node"
const nodeNameKey = "name"

// persistNode remembers a node's identity so it can be offered to schemas
// again before the driver finishes its interview on the next start.
func (g *ZWaveGateway) persistNode(n *internalNode) {
	if g.section == nil {
		return
	}

	n.mutex.RLock()
	name := n.name
	n.mutex.RUnlock()

	s := g.section.Section(nodeSectionName, nodeKey(n.id))
	s.Set(nodeNameKey, name)
}

func (g *ZWaveGateway) unpersistNode(id ozw.NodeID) {
	if g.section == nil {
		return
	}

	g.section.Section(nodeSectionName).SectionDelete(nodeKey(id))
}

// loadPersistedNodes restores nodes remembered from a previous run. Restored
// nodes are marked pre populated, value polling stays disabled for them
// unless configuration asks otherwise.
func (g *ZWaveGateway) loadPersistedNodes() {
	if g.section == nil {
		return
	}

	nodes := g.section.Section(nodeSectionName)

	for _, key := range nodes.SectionKeys() {
		id, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			continue
		}

		// createNode announces the node, which persists it again with an
		// empty name, so the stored name must be read first and written
		// back afterwards.
		name, hasName := nodes.Section(key).String(nodeNameKey)

		n, _ := g.nodeTable.createNode(ozw.NodeID(id))

		n.mutex.Lock()
		n.prePopulated = true
		n.mutex.Unlock()

		if hasName {
			n.setName(name)
			g.persistNode(n)
		}
	}
}

func nodeKey(id ozw.NodeID) string {
	return fmt.Sprintf("%d", id)
}
