package zwd

import (
	"context"
	"testing"
	"time"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/zwd/ozw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func Test_ZWaveEnumerateDevice(t *testing.T) {
	entityDevice := func(g *ZWaveGateway, id EntityIdentifier) da.Device {
		return da.Device{
			Gateway:      g,
			Identifier:   id,
			Capabilities: []da.Capability{capabilities.EnumerateDeviceFlag},
		}
	}

	t.Run("enumeration refreshes node information and every known value", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 4}})

		n := g.nodeTable.getNode(4)
		n.storeValue(ozw.Value{ID: 41, NodeID: 4, CommandClass: ozw.CommandClassSwitchBinary, Genre: ozw.GenreUser, Data: ozw.BoolDatum(false)})
		n.storeValue(ozw.Value{ID: 42, NodeID: 4, CommandClass: ozw.CommandClassMeter, Genre: ozw.GenreUser, Data: ozw.NumberDatum(0)})

		refreshed := make(chan struct{})

		md.On("RefreshNodeInfo", mock.Anything, ozw.NodeID(4)).Return(nil)
		md.On("RefreshValue", mock.Anything, ozw.ValueID(41)).Return(nil)
		md.On("RefreshValue", mock.Anything, ozw.ValueID(42)).Return(nil).Run(func(args mock.Arguments) {
			close(refreshed)
		})

		g.enumerator.Start()
		defer g.enumerator.Stop()

		device := entityDevice(g, EntityIdentifier{NodeID: 4, ValueID: 41})
		assert.NoError(t, g.enumerator.Enumerate(context.Background(), device))

		select {
		case <-refreshed:
		case <-time.After(time.Second):
			t.Fatal("enumeration did not complete")
		}

		md.AssertExpectations(t)
	})

	t.Run("a device from another gateway is rejected", func(t *testing.T) {
		g, _ := newTestGateway(t)

		err := g.enumerator.Enumerate(context.Background(), da.Device{})
		assert.Equal(t, da.DeviceDoesNotBelongToGatewayError, err)
	})

	t.Run("a device without the capability is rejected", func(t *testing.T) {
		g, _ := newTestGateway(t)

		device := da.Device{Gateway: g, Identifier: EntityIdentifier{NodeID: 4, ValueID: 41}}

		err := g.enumerator.Enumerate(context.Background(), device)
		assert.Equal(t, da.DeviceDoesNotHaveCapability, err)
	})

	t.Run("status reports whether the node is enumerating", func(t *testing.T) {
		g, _ := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 4}})

		device := entityDevice(g, EntityIdentifier{NodeID: 4, ValueID: 41})

		status, err := g.enumerator.Status(context.Background(), device)
		assert.NoError(t, err)
		assert.False(t, status.Enumerating)

		n := g.nodeTable.getNode(4)
		n.mutex.Lock()
		n.enumerating = true
		n.mutex.Unlock()

		status, err = g.enumerator.Status(context.Background(), device)
		assert.NoError(t, err)
		assert.True(t, status.Enumerating)
	})
}
