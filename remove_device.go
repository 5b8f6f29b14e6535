package zwd

import (
	"context"
	"fmt"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/logwrap"
)

var _ capabilities.DeviceRemoval = (*ZWaveDeviceRemoval)(nil)

// ZWaveDeviceRemoval removes a node from the mesh. A requested removal puts
// the controller into exclusion mode and needs the device to be woken or
// triggered by the user, a forced removal drops a node the controller has
// marked failed.
type ZWaveDeviceRemoval struct {
	gateway   *ZWaveGateway
	nodeTable nodeTable
}

func (z ZWaveDeviceRemoval) Capability() da.Capability {
	return capabilities.DeviceRemovalFlag
}

func (z ZWaveDeviceRemoval) Name() string {
	return capabilities.StandardNames[z.Capability()]
}

func (z ZWaveDeviceRemoval) Remove(ctx context.Context, device da.Device, removalType capabilities.RemovalType) error {
	if da.DeviceDoesNotBelongToGateway(z.gateway, device) {
		return da.DeviceDoesNotBelongToGatewayError
	} else if !device.HasCapability(capabilities.DeviceRemovalFlag) {
		return da.DeviceDoesNotHaveCapability
	}

	id, ok := device.Identifier.(EntityIdentifier)
	if !ok {
		return fmt.Errorf("device identifier is not a z-wave entity")
	}

	if z.nodeTable.getNode(id.NodeID) == nil {
		return da.DeviceDoesNotBelongToGatewayError
	}

	switch removalType {
	case capabilities.Request:
		z.gateway.logger.LogInfo(ctx, "Entering exclusion mode to remove node.", logwrap.Datum("NodeID", id.NodeID.String()))
		return z.gateway.driver.RemoveNode(ctx)
	case capabilities.Force:
		z.gateway.logger.LogInfo(ctx, "Requesting forced removal of failed node.", logwrap.Datum("NodeID", id.NodeID.String()))
		return z.gateway.driver.RemoveFailedNode(ctx, id.NodeID)
	default:
		z.gateway.logger.LogError(ctx, "Request removal called with unknown removal type.", logwrap.Datum("NodeID", id.NodeID.String()), logwrap.Datum("removalType", removalType))
		return fmt.Errorf("remove device called with unknown removal type: %v", removalType)
	}
}
