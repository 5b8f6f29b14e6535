package zwd

import (
	"context"
	"fmt"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/retry"
	"github.com/shimmeringbee/zwd/ozw"
)

const DefaultNetworkTimeout = 3000 * time.Millisecond
const DefaultNetworkRetries = 5

// DefaultConfigParamSize is assumed when a configuration parameter's width
// cannot be resolved from the value store.
const DefaultConfigParamSize = uint8(2)

// ZWaveServices translates host framework service invocations into native
// network library calls. Handlers are independent of one another, invalid
// parameters are warn logged and dropped without side effects.
type ZWaveServices struct {
	gateway *ZWaveGateway
}

func (s *ZWaveServices) logger() logwrap.Logger {
	return s.gateway.logger
}

func (s *ZWaveServices) node(ctx context.Context, id ozw.NodeID) (*internalNode, error) {
	n := s.gateway.nodeTable.getNode(id)
	if n == nil {
		s.logger().LogWarn(ctx, "Service call for unknown node.", logwrap.Datum("NodeID", id.String()))
		return nil, fmt.Errorf("unknown node: %d", id)
	}

	return n, nil
}

// AddNode places the controller in inclusion mode, secure requests key
// exchange.
func (s *ZWaveServices) AddNode(ctx context.Context, secure bool) error {
	return s.gateway.driver.AddNode(ctx, secure)
}

// RemoveNode places the controller in exclusion mode.
func (s *ZWaveServices) RemoveNode(ctx context.Context) error {
	return s.gateway.driver.RemoveNode(ctx)
}

// CancelCommand aborts the pending controller command.
func (s *ZWaveServices) CancelCommand(ctx context.Context) error {
	return s.gateway.driver.CancelCommand(ctx)
}

// HealNetwork asks every node to update its neighbour list, optionally
// recalculating return routes.
func (s *ZWaveServices) HealNetwork(ctx context.Context, returnRoutes bool) error {
	return s.gateway.driver.HealNetwork(ctx, returnRoutes)
}

// SoftReset restarts the controller without erasing its network
// configuration.
func (s *ZWaveServices) SoftReset(ctx context.Context) error {
	return s.gateway.driver.SoftResetController(ctx)
}

// TestNetwork sends count test messages across the mesh.
func (s *ZWaveServices) TestNetwork(ctx context.Context, count int) error {
	return s.gateway.driver.TestNetwork(ctx, count)
}

// StartNetwork brings the network up.
func (s *ZWaveServices) StartNetwork(ctx context.Context) error {
	if err := s.gateway.driver.StartNetwork(ctx); err != nil {
		return err
	}

	s.gateway.sendEvent(NetworkStarted{})
	return nil
}

// StopNetwork shuts the network down, announcing the stop to the host
// before the driver is told.
func (s *ZWaveServices) StopNetwork(ctx context.Context) error {
	s.gateway.sendEvent(NetworkStopped{})
	return s.gateway.driver.StopNetwork(ctx)
}

// RenameNode updates a node's display name locally and in the native
// library.
func (s *ZWaveServices) RenameNode(ctx context.Context, id ozw.NodeID, name string) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	n.setName(name)
	s.gateway.persistNode(n)

	return s.gateway.driver.SetNodeName(ctx, id, name)
}

// RemoveFailedNode drops a node the controller has marked failed.
func (s *ZWaveServices) RemoveFailedNode(ctx context.Context, id ozw.NodeID) error {
	return s.gateway.driver.RemoveFailedNode(ctx, id)
}

// ReplaceFailedNode swaps a failed node for a newly included one keeping its
// node id.
func (s *ZWaveServices) ReplaceFailedNode(ctx context.Context, id ozw.NodeID) error {
	return s.gateway.driver.ReplaceFailedNode(ctx, id)
}

// SetConfigParameter writes a device configuration parameter. When size is
// nil the width is resolved from the node's configuration value store: a
// list typed parameter maps the integer value onto its item range with width
// 2, out of range values are dropped. An explicit size forwards value and
// size unmodified, provided the value fits the declared byte width.
func (s *ZWaveServices) SetConfigParameter(ctx context.Context, id ozw.NodeID, param uint8, value int64, size *uint8) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	if size != nil {
		if !validConfigParamSize(*size) {
			s.logger().LogWarn(ctx, "Invalid configuration parameter size.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("Size", int(*size)))
			return fmt.Errorf("invalid configuration parameter size: %d", *size)
		}

		if !fitsWidth(value, *size) {
			s.logger().LogWarn(ctx, "Configuration value does not fit declared size.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("Parameter", int(param)), logwrap.Datum("Size", int(*size)))
			return fmt.Errorf("configuration value %d does not fit size %d", value, *size)
		}

		return s.gateway.driver.SetConfigParam(ctx, id, param, value, *size)
	}

	resolvedSize := DefaultConfigParamSize

	if cv, found := n.valueByCommandClassIndex(ozw.CommandClassConfiguration, param); found {
		switch cv.Data.Kind {
		case ozw.KindList:
			if value < 0 || value >= int64(len(cv.ItemList)) {
				s.logger().LogWarn(ctx, "Configuration value outside list item range.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("Parameter", int(param)), logwrap.Datum("Value", value))
				return nil
			}
		case ozw.KindBool:
			resolvedSize = 1
			if value != 0 && value != 1 {
				s.logger().LogWarn(ctx, "Configuration value for boolean parameter must be 0 or 1.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("Parameter", int(param)))
				return nil
			}
		}
	}

	if !fitsWidth(value, resolvedSize) {
		s.logger().LogWarn(ctx, "Configuration value does not fit resolved size.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("Parameter", int(param)), logwrap.Datum("Size", int(resolvedSize)))
		return fmt.Errorf("configuration value %d does not fit size %d", value, resolvedSize)
	}

	return s.gateway.driver.SetConfigParam(ctx, id, param, value, resolvedSize)
}

// PrintConfigParameter logs the current datum of a configuration parameter.
func (s *ZWaveServices) PrintConfigParameter(ctx context.Context, id ozw.NodeID, param uint8) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	cv, found := n.valueByCommandClassIndex(ozw.CommandClassConfiguration, param)
	if !found {
		s.logger().LogWarn(ctx, "Configuration parameter not present on node.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("Parameter", int(param)))
		return fmt.Errorf("configuration parameter %d not present on node %d", param, id)
	}

	s.logger().LogInfo(ctx, "Configuration parameter value.",
		logwrap.Datum("NodeID", id.String()),
		logwrap.Datum("Parameter", int(param)),
		logwrap.Datum("Value", cv.Data))

	return nil
}

// PrintNode logs the node's current metadata and value inventory.
func (s *ZWaveServices) PrintNode(ctx context.Context, id ozw.NodeID) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	s.logger().LogInfo(ctx, "Node information.",
		logwrap.Datum("Node", n.snapshot()),
		logwrap.Datum("ValueCount", len(safeValues(n.knownValues))))

	return nil
}

// SetWakeup writes the wake up interval of a battery powered node. Nodes
// that cannot wake up are left untouched.
func (s *ZWaveServices) SetWakeup(ctx context.Context, id ozw.NodeID, seconds int) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	snap := n.snapshot()
	if !snap.CanWakeUp {
		s.logger().LogWarn(ctx, "Node cannot wake up, not setting interval.", logwrap.Datum("NodeID", id.String()))
		return nil
	}

	wv, found := n.valueByCommandClass(ozw.CommandClassWakeUp)
	if !found {
		s.logger().LogWarn(ctx, "Node has no wake up value.", logwrap.Datum("NodeID", id.String()))
		return fmt.Errorf("node %d has no wake up value", id)
	}

	if err := s.gateway.driver.SetValue(ctx, wv.ID, ozw.NumberDatum(float64(seconds))); err != nil {
		return err
	}

	updated := *wv
	updated.Data = ozw.NumberDatum(float64(seconds))
	n.storeValue(updated)

	return nil
}

// AssociationAdd and AssociationRemove are the accepted ChangeAssociation
// actions.
const (
	AssociationAdd    = "add"
	AssociationRemove = "remove"
)

// ChangeAssociation adds or removes a target node in one of a node's
// association groups.
func (s *ZWaveServices) ChangeAssociation(ctx context.Context, action string, id ozw.NodeID, group uint8, target ozw.NodeID, instance uint8) error {
	if _, err := s.node(ctx, id); err != nil {
		return err
	}

	switch action {
	case AssociationAdd:
		return s.gateway.driver.AddAssociation(ctx, id, group, target, instance)
	case AssociationRemove:
		return s.gateway.driver.RemoveAssociation(ctx, id, group, target, instance)
	default:
		s.logger().LogWarn(ctx, "Unknown association action.", logwrap.Datum("Action", action))
		return fmt.Errorf("unknown association action: %s", action)
	}
}

// RefreshEntity re-requests every value backing an entity from the device.
func (s *ZWaveServices) RefreshEntity(ctx context.Context, id EntityIdentifier) error {
	if _, found := s.gateway.Entity(id); !found {
		s.logger().LogWarn(ctx, "Refresh requested for unknown entity.", logwrap.Datum("EntityID", id.String()))
		return fmt.Errorf("unknown entity: %s", id)
	}

	s.gateway.aggLock.RLock()
	values := s.gateway.aggregators[id.ValueID]
	s.gateway.aggLock.RUnlock()

	if values == nil {
		return fmt.Errorf("no aggregated values for entity: %s", id)
	}

	for _, v := range values.Values() {
		if v == nil {
			continue
		}

		valueID := values.Node().copyValue(v).ID
		if err := retry.Retry(ctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
			return s.gateway.driver.RefreshValue(ctx, valueID)
		}); err != nil {
			s.logger().LogWarn(ctx, "Failed to refresh value.", logwrap.Datum("ValueID", valueID.String()), logwrap.Err(err))
		}
	}

	return nil
}

// RefreshNode re-interviews a node. Concurrent refreshes of the same node
// are serialised.
func (s *ZWaveServices) RefreshNode(ctx context.Context, id ozw.NodeID) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	if err := n.refreshSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer n.refreshSem.Release(1)

	return retry.Retry(ctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
		return s.gateway.driver.RefreshNodeInfo(ctx, id)
	})
}

// RefreshNodeValue re-requests a single value from a node.
func (s *ZWaveServices) RefreshNodeValue(ctx context.Context, id ozw.NodeID, value ozw.ValueID) error {
	n, err := s.node(ctx, id)
	if err != nil {
		return err
	}

	if _, found := n.value(value); !found {
		s.logger().LogWarn(ctx, "Refresh requested for unknown value.", logwrap.Datum("NodeID", id.String()), logwrap.Datum("ValueID", value.String()))
		return fmt.Errorf("unknown value %d on node %d", value, id)
	}

	return retry.Retry(ctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
		return s.gateway.driver.RefreshValue(ctx, value)
	})
}

func validConfigParamSize(size uint8) bool {
	for _, s := range ozw.ConfigParamSizes {
		if s == size {
			return true
		}
	}

	return false
}

// fitsWidth reports whether value can be expressed in size bytes, treating
// the parameter as unsigned as the protocol does.
func fitsWidth(value int64, size uint8) bool {
	if value < 0 {
		return false
	}

	if size >= 8 {
		return true
	}

	return value < int64(1)<<(8*uint(size))
}
