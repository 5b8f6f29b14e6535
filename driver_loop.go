package zwd

import (
	"context"
	"errors"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/zwd/ozw"
	"github.com/shimmeringbee/zwd/rules"
)

// driverLoop marshals native library notifications, which arrive on the
// driver's own thread, into a single goroutine. All aggregator state is
// mutated here and nowhere else.
func (g *ZWaveGateway) driverLoop() {
	for {
		event, err := g.driver.ReadEvent(g.ctx)

		if err != nil {
			if errors.Is(err, context.Canceled) {
				g.logger.LogInfo(g.ctx, "Driver loop terminating due to cancelled context.")
			} else {
				g.logger.LogError(g.ctx, "Failed to read event from Z-Wave driver.", logwrap.Err(err))
			}
			return
		}

		switch e := event.(type) {
		case ozw.NodeAddedEvent:
			g.receiveNodeAdded(e)
		case ozw.NodeUpdatedEvent:
			g.receiveNodeUpdated(e)
		case ozw.NodeRemovedEvent:
			g.receiveNodeRemoved(e)
		case ozw.NodeStateEvent:
			g.receiveNodeState(e)
		case ozw.ValueAddedEvent:
			g.receiveValueAdded(e)
		case ozw.ValueChangedEvent:
			g.receiveValueChanged(e)
		case ozw.ValueRemovedEvent:
			g.receiveValueRemoved(e)
		case ozw.NetworkStateEvent:
			g.receiveNetworkState(e)
		}
	}
}

func (g *ZWaveGateway) receiveNodeAdded(e ozw.NodeAddedEvent) {
	n, created := g.nodeTable.createNode(e.Node.ID)
	n.updateFromNode(e.Node)

	if created {
		g.logger.LogInfo(g.ctx, "Node has joined Z-Wave network.", logwrap.Datum("NodeID", e.Node.ID.String()))
	}
}

func (g *ZWaveGateway) receiveNodeUpdated(e ozw.NodeUpdatedEvent) {
	if n := g.nodeTable.getNode(e.Node.ID); n != nil {
		n.updateFromNode(e.Node)
	}
}

func (g *ZWaveGateway) receiveNodeRemoved(e ozw.NodeRemovedEvent) {
	n := g.nodeTable.getNode(e.NodeID)
	if n == nil {
		g.logger.LogWarn(g.ctx, "Received removal for unknown node.", logwrap.Datum("NodeID", e.NodeID.String()))
		return
	}

	g.logger.LogInfo(g.ctx, "Node has left Z-Wave network.", logwrap.Datum("NodeID", e.NodeID.String()))

	g.removeAggregatorsForNode(e.NodeID)
	g.nodeTable.removeNode(e.NodeID)
	g.unpersistNode(e.NodeID)
}

func (g *ZWaveGateway) receiveNodeState(e ozw.NodeStateEvent) {
	if n := g.nodeTable.getNode(e.NodeID); n != nil {
		n.setState(e.State)
	}
}

func (g *ZWaveGateway) receiveValueAdded(e ozw.ValueAddedEvent) {
	n, _ := g.nodeTable.createNode(e.NodeID)
	v := n.storeValue(e.Value)

	g.checkValue(n, v)
}

func (g *ZWaveGateway) receiveValueChanged(e ozw.ValueChangedEvent) {
	n := g.nodeTable.getNode(e.NodeID)
	if n == nil {
		return
	}

	v := n.storeValue(e.Value)

	g.checkValue(n, v)
}

func (g *ZWaveGateway) receiveValueRemoved(e ozw.ValueRemovedEvent) {
	if n := g.nodeTable.getNode(e.NodeID); n != nil {
		n.removeValue(e.ValueID)
	}
}

func (g *ZWaveGateway) receiveNetworkState(e ozw.NetworkStateEvent) {
	g.logger.LogInfo(g.ctx, "Z-Wave network state changed.", logwrap.Datum("State", e.State.String()))

	if e.State == ozw.NetworkReady {
		g.sendEvent(NetworkReady{})
	}
}

// checkValue feeds a new or updated value to every aggregator on its node,
// then considers it as the primary value of a not yet discovered entity.
func (g *ZWaveGateway) checkValue(n *internalNode, v *ozw.Value) {
	for _, ev := range g.aggregatorsForNode(n.id) {
		ev.checkValue(v)
	}

	g.aggLock.RLock()
	_, claimed := g.aggregators[v.ID]
	g.aggLock.RUnlock()

	if claimed {
		return
	}

	snap := n.snapshot()

	for _, s := range g.schemas {
		if !s.MatchesNode(snap) {
			continue
		}

		primaryRule, found := s.Values[rules.RolePrimary]
		if !found {
			continue
		}

		if !rules.Matches(snap, *v, primaryRule) || !s.MatchesFilter(snap, *v) {
			continue
		}

		ev := newEntityValues(g, s, n, v)

		g.aggLock.Lock()
		g.aggregators[v.ID] = ev
		g.aggLock.Unlock()

		ev.checkReady()
		return
	}
}

func (g *ZWaveGateway) aggregatorsForNode(id ozw.NodeID) []*entityValues {
	g.aggLock.RLock()
	defer g.aggLock.RUnlock()

	var evs []*entityValues

	for _, ev := range g.aggregators {
		if ev.node.id == id {
			evs = append(evs, ev)
		}
	}

	return evs
}

func (g *ZWaveGateway) removeAggregatorsForNode(id ozw.NodeID) {
	for _, ev := range g.aggregatorsForNode(id) {
		g.aggLock.Lock()
		delete(g.aggregators, ev.primary.ID)
		g.aggLock.Unlock()

		g.discovery.removeByValues(ev)

		if ev.entity == nil {
			continue
		}

		g.entityLock.Lock()
		if attached, found := g.entities[ev.entity.Identifier()]; found {
			delete(g.entities, ev.entity.Identifier())
			g.entityLock.Unlock()
			g.sendEvent(da.DeviceRemoved{Device: attached.device})
		} else {
			g.entityLock.Unlock()
		}
	}
}
