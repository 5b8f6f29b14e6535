package zwd

import (
	"context"
	"testing"

	"github.com/shimmeringbee/zwd/ozw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func uint8Ptr(v uint8) *uint8 {
	return &v
}

func Test_ZWaveServices_networkCommands(t *testing.T) {
	t.Run("controller commands forward to the driver", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		md.On("AddNode", ctx, false).Return(nil)
		md.On("AddNode", ctx, true).Return(nil)
		md.On("RemoveNode", ctx).Return(nil)
		md.On("CancelCommand", ctx).Return(nil)
		md.On("HealNetwork", ctx, true).Return(nil)
		md.On("TestNetwork", ctx, 5).Return(nil)
		md.On("SoftResetController", ctx).Return(nil)
		md.On("RemoveFailedNode", ctx, ozw.NodeID(9)).Return(nil)
		md.On("ReplaceFailedNode", ctx, ozw.NodeID(9)).Return(nil)

		s := g.Services()

		assert.NoError(t, s.AddNode(ctx, false))
		assert.NoError(t, s.AddNode(ctx, true))
		assert.NoError(t, s.RemoveNode(ctx))
		assert.NoError(t, s.CancelCommand(ctx))
		assert.NoError(t, s.HealNetwork(ctx, true))
		assert.NoError(t, s.TestNetwork(ctx, 5))
		assert.NoError(t, s.SoftReset(ctx))
		assert.NoError(t, s.RemoveFailedNode(ctx, 9))
		assert.NoError(t, s.ReplaceFailedNode(ctx, 9))

		md.AssertExpectations(t)
	})

	t.Run("stop network announces the stop before telling the driver", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		md.On("StopNetwork", ctx).Return(nil)

		assert.NoError(t, g.Services().StopNetwork(ctx))

		_, ok := readEvent(t, g).(NetworkStopped)
		assert.True(t, ok)

		md.AssertExpectations(t)
	})
}

func Test_ZWaveServices_RenameNode(t *testing.T) {
	t.Run("renames a known node locally and in the driver", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		md.On("SetNodeName", ctx, ozw.NodeID(14), "Kitchen Switch").Return(nil)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 14}})

		assert.NoError(t, g.Services().RenameNode(ctx, 14, "Kitchen Switch"))
		assert.Equal(t, "Kitchen Switch", g.nodeTable.getNode(14).displayName())

		md.AssertExpectations(t)
	})

	t.Run("errors on an unknown node without touching the driver", func(t *testing.T) {
		g, md := newTestGateway(t)

		assert.Error(t, g.Services().RenameNode(context.Background(), 14, "Kitchen Switch"))

		md.AssertNotCalled(t, "SetNodeName", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_ZWaveServices_SetConfigParameter(t *testing.T) {
	configNode := func(g *ZWaveGateway, data ozw.Datum, items []string) {
		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 14}})

		n := g.nodeTable.getNode(14)
		n.storeValue(ozw.Value{
			ID:           141,
			NodeID:       14,
			CommandClass: ozw.CommandClassConfiguration,
			Genre:        ozw.GenreConfig,
			Index:        7,
			Label:        "Operating Mode",
			Data:         data,
			ItemList:     items,
		})
	}

	t.Run("a list parameter forwards an in-range selection with the default size", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		configNode(g, ozw.ListDatum("Normal"), []string{"Normal", "Away", "Holiday"})

		md.On("SetConfigParam", ctx, ozw.NodeID(14), uint8(7), int64(1), uint8(2)).Return(nil)

		assert.NoError(t, g.Services().SetConfigParameter(ctx, 14, 7, 1, nil))

		md.AssertExpectations(t)
	})

	t.Run("a list parameter drops an out of range selection without a driver call", func(t *testing.T) {
		g, md := newTestGateway(t)

		configNode(g, ozw.ListDatum("Normal"), []string{"Normal", "Away", "Holiday"})

		assert.NoError(t, g.Services().SetConfigParameter(context.Background(), 14, 7, 7, nil))

		md.AssertNotCalled(t, "SetConfigParam", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an explicit size forwards the value unmodified", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 14}})

		md.On("SetConfigParam", ctx, ozw.NodeID(14), uint8(7), int64(0x01020304), uint8(4)).Return(nil)

		assert.NoError(t, g.Services().SetConfigParameter(ctx, 14, 7, 0x01020304, uint8Ptr(4)))

		md.AssertExpectations(t)
	})

	t.Run("an unsupported explicit size is rejected", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 14}})

		assert.Error(t, g.Services().SetConfigParameter(context.Background(), 14, 7, 1, uint8Ptr(3)))

		md.AssertNotCalled(t, "SetConfigParam", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a value too wide for its declared size is rejected", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 14}})

		assert.Error(t, g.Services().SetConfigParameter(context.Background(), 14, 7, 256, uint8Ptr(1)))

		md.AssertNotCalled(t, "SetConfigParam", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a parameter the node has not reported uses the default size", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 14}})

		md.On("SetConfigParam", ctx, ozw.NodeID(14), uint8(3), int64(50), uint8(2)).Return(nil)

		assert.NoError(t, g.Services().SetConfigParameter(ctx, 14, 3, 50, nil))

		md.AssertExpectations(t)
	})

	t.Run("an unknown node is rejected", func(t *testing.T) {
		g, md := newTestGateway(t)

		assert.Error(t, g.Services().SetConfigParameter(context.Background(), 14, 7, 1, nil))

		md.AssertNotCalled(t, "SetConfigParam", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_ZWaveServices_SetWakeup(t *testing.T) {
	t.Run("writes the wake up interval on a node that can wake up", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 15, CanWakeUp: true}})

		n := g.nodeTable.getNode(15)
		n.storeValue(ozw.Value{
			ID:           151,
			NodeID:       15,
			CommandClass: ozw.CommandClassWakeUp,
			Genre:        ozw.GenreSystem,
			Label:        "Wake-up Interval",
			Data:         ozw.NumberDatum(3600),
		})

		md.On("SetValue", ctx, ozw.ValueID(151), ozw.NumberDatum(1800)).Return(nil)

		assert.NoError(t, g.Services().SetWakeup(ctx, 15, 1800))

		v, found := n.value(151)
		assert.True(t, found)
		assert.Equal(t, float64(1800), v.Data.Number)

		md.AssertExpectations(t)
	})

	t.Run("refuses on a node that cannot wake up", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 15}})

		assert.NoError(t, g.Services().SetWakeup(context.Background(), 15, 1800))

		md.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_ZWaveServices_ChangeAssociation(t *testing.T) {
	t.Run("add and remove forward to the driver", func(t *testing.T) {
		g, md := newTestGateway(t)
		ctx := context.Background()

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 16}})

		md.On("AddAssociation", ctx, ozw.NodeID(16), uint8(1), ozw.NodeID(1), uint8(0)).Return(nil)
		md.On("RemoveAssociation", ctx, ozw.NodeID(16), uint8(1), ozw.NodeID(1), uint8(0)).Return(nil)

		assert.NoError(t, g.Services().ChangeAssociation(ctx, AssociationAdd, 16, 1, 1, 0))
		assert.NoError(t, g.Services().ChangeAssociation(ctx, AssociationRemove, 16, 1, 1, 0))

		md.AssertExpectations(t)
	})

	t.Run("an unknown action is rejected", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 16}})

		assert.Error(t, g.Services().ChangeAssociation(context.Background(), "toggle", 16, 1, 1, 0))

		md.AssertNotCalled(t, "AddAssociation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		md.AssertNotCalled(t, "RemoveAssociation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_ZWaveServices_refresh(t *testing.T) {
	t.Run("refresh node re-interviews via the driver", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 17}})

		md.On("RefreshNodeInfo", mock.Anything, ozw.NodeID(17)).Return(nil)

		assert.NoError(t, g.Services().RefreshNode(context.Background(), 17))

		md.AssertExpectations(t)
	})

	t.Run("refresh node value requires the value to be known", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 17}})

		assert.Error(t, g.Services().RefreshNodeValue(context.Background(), 17, 171))

		md.AssertNotCalled(t, "RefreshValue", mock.Anything, mock.Anything)
	})

	t.Run("refresh node value re-requests a known value", func(t *testing.T) {
		g, md := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 17}})
		g.nodeTable.getNode(17).storeValue(ozw.Value{
			ID:           171,
			NodeID:       17,
			CommandClass: ozw.CommandClassBasic,
			Genre:        ozw.GenreUser,
			Data:         ozw.NumberDatum(0),
		})

		md.On("RefreshValue", mock.Anything, ozw.ValueID(171)).Return(nil)

		assert.NoError(t, g.Services().RefreshNodeValue(context.Background(), 17, 171))

		md.AssertExpectations(t)
	})

	t.Run("refresh entity re-requests every filled role value", func(t *testing.T) {
		g, md := newTestGateway(t)
		g.WithSchemas(switchWithPowerSchemas(t))

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 18}})
		g.receiveValueAdded(ozw.ValueAddedEvent{NodeID: 18, Value: ozw.Value{
			ID:           181,
			NodeID:       18,
			CommandClass: ozw.CommandClassSwitchBinary,
			Genre:        ozw.GenreUser,
			Data:         ozw.BoolDatum(false),
		}})
		g.receiveValueAdded(ozw.ValueAddedEvent{NodeID: 18, Value: ozw.Value{
			ID:           182,
			NodeID:       18,
			CommandClass: ozw.CommandClassMeter,
			Genre:        ozw.GenreUser,
			Data:         ozw.NumberDatum(1),
		}})

		discovered, ok := readEvent(t, g).(EntityDiscovered)
		assert.True(t, ok)

		_, err := g.SetupPlatform(context.Background(), discovered.Handle)
		assert.NoError(t, err)

		md.On("RefreshValue", mock.Anything, ozw.ValueID(181)).Return(nil)
		md.On("RefreshValue", mock.Anything, ozw.ValueID(182)).Return(nil)

		assert.NoError(t, g.Services().RefreshEntity(context.Background(), EntityIdentifier{NodeID: 18, ValueID: 181}))

		md.AssertExpectations(t)
	})

	t.Run("refresh entity errors on an unknown entity", func(t *testing.T) {
		g, _ := newTestGateway(t)

		assert.Error(t, g.Services().RefreshEntity(context.Background(), EntityIdentifier{NodeID: 1, ValueID: 1}))
	})
}

func Test_ZWaveServices_print(t *testing.T) {
	t.Run("print config parameter requires the parameter to be present", func(t *testing.T) {
		g, _ := newTestGateway(t)

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 19}})

		assert.Error(t, g.Services().PrintConfigParameter(context.Background(), 19, 7))

		g.nodeTable.getNode(19).storeValue(ozw.Value{
			ID:           191,
			NodeID:       19,
			CommandClass: ozw.CommandClassConfiguration,
			Genre:        ozw.GenreConfig,
			Index:        7,
			Data:         ozw.NumberDatum(50),
		})

		assert.NoError(t, g.Services().PrintConfigParameter(context.Background(), 19, 7))
	})

	t.Run("print node requires the node to be known", func(t *testing.T) {
		g, _ := newTestGateway(t)

		assert.Error(t, g.Services().PrintNode(context.Background(), 19))

		g.receiveNodeAdded(ozw.NodeAddedEvent{Node: ozw.Node{ID: 19}})

		assert.NoError(t, g.Services().PrintNode(context.Background(), 19))
	})
}
