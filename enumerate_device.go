package zwd

import (
	"context"
	"fmt"
	"time"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/retry"
)

const EnumerateDeviceQueueSize = 50
const EnumerationConcurrency = 2
const MaximumEnumerationTime = 1 * time.Minute

// ZWaveEnumerateDevice re-interviews a node on demand, refreshing its
// metadata and re-requesting every known value from the device. Requests are
// queued and worked concurrently, one enumeration per node at a time.
type ZWaveEnumerateDevice struct {
	gateway   *ZWaveGateway
	nodeTable nodeTable

	queue     chan *internalNode
	queueStop chan bool
}

func (z *ZWaveEnumerateDevice) Capability() da.Capability {
	return capabilities.EnumerateDeviceFlag
}

func (z *ZWaveEnumerateDevice) Name() string {
	return capabilities.StandardNames[z.Capability()]
}

func (z *ZWaveEnumerateDevice) Enumerate(ctx context.Context, device da.Device) error {
	if da.DeviceDoesNotBelongToGateway(z.gateway, device) {
		return da.DeviceDoesNotBelongToGatewayError
	}

	if !device.HasCapability(capabilities.EnumerateDeviceFlag) {
		return da.DeviceDoesNotHaveCapability
	}

	id, ok := device.Identifier.(EntityIdentifier)
	if !ok {
		return fmt.Errorf("device identifier is not a z-wave entity")
	}

	n := z.nodeTable.getNode(id.NodeID)
	if n == nil {
		return fmt.Errorf("unknown node: %d", id.NodeID)
	}

	return z.queueEnumeration(ctx, n)
}

func (z *ZWaveEnumerateDevice) Status(ctx context.Context, device da.Device) (capabilities.EnumerationStatus, error) {
	if da.DeviceDoesNotBelongToGateway(z.gateway, device) {
		return capabilities.EnumerationStatus{}, da.DeviceDoesNotBelongToGatewayError
	}

	if !device.HasCapability(capabilities.EnumerateDeviceFlag) {
		return capabilities.EnumerationStatus{}, da.DeviceDoesNotHaveCapability
	}

	id, ok := device.Identifier.(EntityIdentifier)
	if !ok {
		return capabilities.EnumerationStatus{}, fmt.Errorf("device identifier is not a z-wave entity")
	}

	n := z.nodeTable.getNode(id.NodeID)
	if n == nil {
		return capabilities.EnumerationStatus{}, fmt.Errorf("unknown node: %d", id.NodeID)
	}

	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return capabilities.EnumerationStatus{Enumerating: n.enumerating}, nil
}

func (z *ZWaveEnumerateDevice) queueEnumeration(ctx context.Context, n *internalNode) error {
	select {
	case z.queue <- n:
		z.gateway.logger.LogInfo(ctx, "Queued node enumeration request.", logwrap.Datum("NodeID", n.id.String()))

		n.mutex.Lock()
		n.enumerating = true
		n.mutex.Unlock()

		return nil
	default:
		z.gateway.logger.LogError(ctx, "Failed to queue node enumeration request.", logwrap.Datum("NodeID", n.id.String()))
		return fmt.Errorf("unable to queue enumeration request, likely channel full")
	}
}

func (z *ZWaveEnumerateDevice) Start() {
	z.queue = make(chan *internalNode, EnumerateDeviceQueueSize)
	z.queueStop = make(chan bool, EnumerationConcurrency)

	for i := 0; i < EnumerationConcurrency; i++ {
		go z.enumerateLoop()
	}
}

func (z *ZWaveEnumerateDevice) Stop() {
	if z.queueStop == nil {
		return
	}

	for i := 0; i < EnumerationConcurrency; i++ {
		z.queueStop <- true
	}
}

func (z *ZWaveEnumerateDevice) enumerateLoop() {
	for {
		select {
		case <-z.queueStop:
			return
		case n := <-z.queue:
			err := z.enumerateNode(n)

			n.mutex.Lock()
			n.enumerating = false
			n.mutex.Unlock()

			if err != nil {
				z.gateway.logger.LogError(context.Background(), "Node enumeration failed.", logwrap.Datum("NodeID", n.id.String()), logwrap.Err(err))
			}
		}
	}
}

func (z *ZWaveEnumerateDevice) enumerateNode(n *internalNode) error {
	pctx, cancel := context.WithTimeout(context.Background(), MaximumEnumerationTime)
	defer cancel()

	ctx, segmentEnd := z.gateway.logger.Segment(pctx, "Node enumeration.", logwrap.Datum("NodeID", n.id.String()))
	defer segmentEnd()

	if err := n.refreshSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer n.refreshSem.Release(1)

	z.gateway.logger.LogTrace(ctx, "Requesting node information frame.")
	if err := retry.Retry(ctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
		return z.gateway.driver.RefreshNodeInfo(ctx, n.id)
	}); err != nil {
		z.gateway.logger.LogError(ctx, "Failed to refresh node information.", logwrap.Err(err))
		return err
	}

	for _, v := range safeValues(n.knownValues) {
		valueID := v.ID

		z.gateway.logger.LogTrace(ctx, "Refreshing node value.", logwrap.Datum("ValueID", valueID.String()))
		if err := retry.Retry(ctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
			return z.gateway.driver.RefreshValue(ctx, valueID)
		}); err != nil {
			z.gateway.logger.LogError(ctx, "Failed to refresh node value.", logwrap.Datum("ValueID", valueID.String()), logwrap.Err(err))
			return err
		}
	}

	return nil
}

var _ capabilities.EnumerateDevice = (*ZWaveEnumerateDevice)(nil)
