package zwd

import (
	"context"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/zwd/ozw"
)

// NetworkReadyWaitSeconds is how long WaitForNetworkReady polls before
// giving up and proceeding with a partially interviewed network.
const NetworkReadyWaitSeconds = 300

const networkReadyPollInterval = 1 * time.Second

// WaitForNetworkReady blocks until the driver reports the network at least
// awaked, polling once per second. If the network is still not ready after
// the configured wait a single warning is logged and the call returns,
// entities discovered so far remain usable.
func (g *ZWaveGateway) WaitForNetworkReady(ctx context.Context) error {
	deadline := time.Now().Add(g.networkReadyWait)

	for {
		if g.driver.NetworkState() >= ozw.NetworkAwaked {
			g.sendEvent(NetworkReady{})
			return nil
		}

		if time.Now().After(deadline) {
			g.logger.LogWarn(ctx, "Network not ready after waiting, continuing anyway.",
				logwrap.Datum("WaitedSeconds", int(g.networkReadyWait/time.Second)))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.networkReadyInterval):
		}
	}
}
