package zwd

import (
	"context"
	"errors"
)

// Events published on the gateway event stream, in addition to the host
// framework's own device lifecycle events.

// EntityDiscovered asks the host framework to load a platform for a newly
// completed entity. Handle resolves back to the aggregated values through
// SetupPlatform, and is never reused within a process.
type EntityDiscovered struct {
	Component string
	Handle    string
}

// EntityStateUpdate signals that an already created entity re-rendered
// because one of its underlying values reported new data.
type EntityStateUpdate struct {
	Identifier EntityIdentifier
}

type NetworkStarted struct{}

type NetworkReady struct{}

type NetworkStopped struct{}

type eventSender interface {
	sendEvent(event any)
}

func (g *ZWaveGateway) sendEvent(event any) {
	select {
	case g.events <- event:
	default:
		g.logger.LogWarn(g.ctx, "Event channel buffer full, dropping event.")
	}
}

func (g *ZWaveGateway) ReadEvent(ctx context.Context) (any, error) {
	select {
	case e := <-g.events:
		return e, nil
	case <-ctx.Done():
		return nil, errors.New("context expired")
	}
}
