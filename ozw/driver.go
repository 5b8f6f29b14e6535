package ozw

import "context"

// ConfigParamSizes enumerates the byte widths a configuration parameter may
// declare.
var ConfigParamSizes = []uint8{1, 2, 4}

// Driver is the surface of the native Z-Wave network library. Protocol
// framing, the radio layer and routing all live behind this interface, the
// caller only ever sees typed nodes, values and events.
//
// Implementations must be safe for concurrent use, events returned by
// ReadEvent are delivered in the order the mesh reported them.
type Driver interface {
	// ReadEvent blocks until the next network notification is available, or
	// the context is done.
	ReadEvent(ctx context.Context) (any, error)

	// ControllerNode describes the controller itself, always node 1 on a
	// freshly reset network.
	ControllerNode() Node

	// StartNetwork brings the controller up, StopNetwork shuts it down.
	StartNetwork(ctx context.Context) error
	StopNetwork(ctx context.Context) error

	// NetworkState reports the library's current view of the mesh.
	NetworkState() NetworkState

	// AddNode places the controller in inclusion mode, secure requests
	// network key exchange during the interview.
	AddNode(ctx context.Context, secure bool) error
	// RemoveNode places the controller in exclusion mode.
	RemoveNode(ctx context.Context) error
	RemoveFailedNode(ctx context.Context, node NodeID) error
	ReplaceFailedNode(ctx context.Context, node NodeID) error
	// CancelCommand aborts a pending controller command, such as an
	// inclusion left in progress.
	CancelCommand(ctx context.Context) error

	HealNetwork(ctx context.Context, returnRoutes bool) error
	TestNetwork(ctx context.Context, count int) error
	SoftResetController(ctx context.Context) error

	RefreshNodeInfo(ctx context.Context, node NodeID) error
	SetNodeName(ctx context.Context, node NodeID, name string) error

	RefreshValue(ctx context.Context, value ValueID) error
	SetValue(ctx context.Context, value ValueID, data Datum) error
	EnablePoll(ctx context.Context, value ValueID, intensity uint8) error
	DisablePoll(ctx context.Context, value ValueID) error

	// SetConfigParam writes a device configuration parameter, size must be a
	// member of ConfigParamSizes.
	SetConfigParam(ctx context.Context, node NodeID, param uint8, value int64, size uint8) error
	RequestConfigParam(ctx context.Context, node NodeID, param uint8) error

	AddAssociation(ctx context.Context, node NodeID, group uint8, target NodeID, instance uint8) error
	RemoveAssociation(ctx context.Context, node NodeID, group uint8, target NodeID, instance uint8) error
}
