package zwd

import (
	"context"
	"sync"

	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/zwd/ozw"
)

type nodeTable interface {
	getNode(id ozw.NodeID) *internalNode
	createNode(id ozw.NodeID) (*internalNode, bool)
	removeNode(id ozw.NodeID) bool
	getNodes() []*internalNode
}

type zwdNodeTable struct {
	nodes     map[ozw.NodeID]*internalNode
	lock      *sync.RWMutex
	callbacks callbacks.Caller

	refreshConcurrency int64
}

func newNodeTable() *zwdNodeTable {
	return &zwdNodeTable{
		nodes:              make(map[ozw.NodeID]*internalNode),
		lock:               &sync.RWMutex{},
		refreshConcurrency: defaultRefreshConcurrency,
	}
}

func (z *zwdNodeTable) getNode(id ozw.NodeID) *internalNode {
	z.lock.RLock()
	defer z.lock.RUnlock()

	return z.nodes[id]
}

func (z *zwdNodeTable) createNode(id ozw.NodeID) (*internalNode, bool) {
	z.lock.Lock()

	node, alreadyExists := z.nodes[id]
	if !alreadyExists {
		node = newInternalNode(id, z.refreshConcurrency)
		z.nodes[id] = node
	}

	z.lock.Unlock()

	if !alreadyExists && z.callbacks != nil {
		z.callbacks.Call(context.Background(), internalNodeAdded{node: node})
	}

	return node, !alreadyExists
}

func (z *zwdNodeTable) removeNode(id ozw.NodeID) bool {
	z.lock.Lock()

	node, found := z.nodes[id]
	if found {
		delete(z.nodes, id)
	}

	z.lock.Unlock()

	if found && z.callbacks != nil {
		z.callbacks.Call(context.Background(), internalNodeRemoved{node: node})
	}

	return found
}

func (z *zwdNodeTable) getNodes() []*internalNode {
	z.lock.RLock()
	defer z.lock.RUnlock()

	var nodes []*internalNode

	for _, n := range z.nodes {
		nodes = append(nodes, n)
	}

	return nodes
}
