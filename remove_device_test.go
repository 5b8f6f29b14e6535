package zwd

import (
	"context"
	"testing"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/zwd/ozw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func Test_ZWaveDeviceRemoval(t *testing.T) {
	removableDevice := func(g *ZWaveGateway, node ozw.NodeID) da.Device {
		return da.Device{
			Gateway:      g,
			Identifier:   EntityIdentifier{NodeID: node, ValueID: 1},
			Capabilities: []da.Capability{capabilities.DeviceRemovalFlag},
		}
	}

	t.Run("a requested removal enters exclusion mode", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 7}})

		md.On("RemoveNode", mock.Anything).Return(nil)

		removal := g.Capability(capabilities.DeviceRemovalFlag).(ZWaveDeviceRemoval)
		assert.NoError(t, removal.Remove(context.Background(), removableDevice(g, 7), capabilities.Request))

		md.AssertExpectations(t)
	})

	t.Run("a forced removal drops the failed node", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 7}})

		md.On("RemoveFailedNode", mock.Anything, ozw.NodeID(7)).Return(nil)

		removal := g.Capability(capabilities.DeviceRemovalFlag).(ZWaveDeviceRemoval)
		assert.NoError(t, removal.Remove(context.Background(), removableDevice(g, 7), capabilities.Force))

		md.AssertExpectations(t)
	})

	t.Run("a device from another gateway is rejected", func(t *testing.T) {
		g, _ := newTestGateway(t)

		removal := g.Capability(capabilities.DeviceRemovalFlag).(ZWaveDeviceRemoval)
		err := removal.Remove(context.Background(), da.Device{}, capabilities.Request)
		assert.Equal(t, da.DeviceDoesNotBelongToGatewayError, err)
	})

	t.Run("an unknown node is rejected", func(t *testing.T) {
		g, _ := newTestGateway(t)

		removal := g.Capability(capabilities.DeviceRemovalFlag).(ZWaveDeviceRemoval)
		err := removal.Remove(context.Background(), removableDevice(g, 7), capabilities.Request)
		assert.Equal(t, da.DeviceDoesNotBelongToGatewayError, err)
	})
}
