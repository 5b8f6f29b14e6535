package ozw

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDriver is a testify backed Driver for use in tests.
type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) ReadEvent(ctx context.Context) (any, error) {
	args := m.Called(ctx)
	return args.Get(0), args.Error(1)
}

func (m *MockDriver) ControllerNode() Node {
	args := m.Called()
	return args.Get(0).(Node)
}

func (m *MockDriver) StartNetwork(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) StopNetwork(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) NetworkState() NetworkState {
	args := m.Called()
	return args.Get(0).(NetworkState)
}

func (m *MockDriver) AddNode(ctx context.Context, secure bool) error {
	args := m.Called(ctx, secure)
	return args.Error(0)
}

func (m *MockDriver) RemoveNode(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) RemoveFailedNode(ctx context.Context, node NodeID) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockDriver) ReplaceFailedNode(ctx context.Context, node NodeID) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockDriver) CancelCommand(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) HealNetwork(ctx context.Context, returnRoutes bool) error {
	args := m.Called(ctx, returnRoutes)
	return args.Error(0)
}

func (m *MockDriver) TestNetwork(ctx context.Context, count int) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func (m *MockDriver) SoftResetController(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDriver) RefreshNodeInfo(ctx context.Context, node NodeID) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockDriver) SetNodeName(ctx context.Context, node NodeID, name string) error {
	args := m.Called(ctx, node, name)
	return args.Error(0)
}

func (m *MockDriver) RefreshValue(ctx context.Context, value ValueID) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *MockDriver) SetValue(ctx context.Context, value ValueID, data Datum) error {
	args := m.Called(ctx, value, data)
	return args.Error(0)
}

func (m *MockDriver) EnablePoll(ctx context.Context, value ValueID, intensity uint8) error {
	args := m.Called(ctx, value, intensity)
	return args.Error(0)
}

func (m *MockDriver) DisablePoll(ctx context.Context, value ValueID) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

func (m *MockDriver) SetConfigParam(ctx context.Context, node NodeID, param uint8, value int64, size uint8) error {
	args := m.Called(ctx, node, param, value, size)
	return args.Error(0)
}

func (m *MockDriver) RequestConfigParam(ctx context.Context, node NodeID, param uint8) error {
	args := m.Called(ctx, node, param)
	return args.Error(0)
}

func (m *MockDriver) AddAssociation(ctx context.Context, node NodeID, group uint8, target NodeID, instance uint8) error {
	args := m.Called(ctx, node, group, target, instance)
	return args.Error(0)
}

func (m *MockDriver) RemoveAssociation(ctx context.Context, node NodeID, group uint8, target NodeID, instance uint8) error {
	args := m.Called(ctx, node, group, target, instance)
	return args.Error(0)
}

var _ Driver = (*MockDriver)(nil)
