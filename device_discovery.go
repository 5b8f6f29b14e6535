package zwd

import (
	"context"
	"time"

	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"github.com/shimmeringbee/logwrap"
)

// ZWaveDeviceDiscovery exposes controller inclusion mode through the host
// framework's device discovery capability. Enabling puts the controller into
// inclusion for the requested duration, disabling cancels the pending
// controller command.
type ZWaveDeviceDiscovery struct {
	gateway     *ZWaveGateway
	eventSender eventSender

	discovering    bool
	allowTimer     *time.Timer
	allowExpiresAt time.Time
}

func (d *ZWaveDeviceDiscovery) Capability() da.Capability {
	return capabilities.DeviceDiscoveryFlag
}

func (d *ZWaveDeviceDiscovery) Name() string {
	return capabilities.StandardNames[d.Capability()]
}

func (d *ZWaveDeviceDiscovery) Enable(ctx context.Context, device da.Device, duration time.Duration) error {
	if da.DeviceIsNotGatewaySelf(d.gateway, device) {
		return da.DeviceIsNotGatewaySelfDeviceError
	}

	d.gateway.logger.LogInfo(ctx, "Entering inclusion mode on Z-Wave controller.", logwrap.Datum("Duration", duration))
	if err := d.gateway.driver.AddNode(ctx, false); err != nil {
		d.gateway.logger.LogError(ctx, "Failed to enter inclusion mode.", logwrap.Err(err))
		return err
	}

	if d.allowTimer != nil {
		d.allowTimer.Stop()
	}

	d.allowExpiresAt = time.Now().Add(duration)
	d.allowTimer = time.AfterFunc(duration, func() {
		if err := d.Disable(ctx, device); err != nil {
			d.gateway.logger.LogError(ctx, "Automatic timed inclusion cancel failed.", logwrap.Err(err))
		}
	})

	d.discovering = true

	d.eventSender.sendEvent(capabilities.DeviceDiscoveryEnabled{
		Gateway:  d.gateway,
		Duration: duration,
	})

	return nil
}

func (d *ZWaveDeviceDiscovery) Disable(ctx context.Context, device da.Device) error {
	if da.DeviceIsNotGatewaySelf(d.gateway, device) {
		return da.DeviceIsNotGatewaySelfDeviceError
	}

	d.gateway.logger.LogInfo(ctx, "Cancelling inclusion mode on Z-Wave controller.")
	if err := d.gateway.driver.CancelCommand(ctx); err != nil {
		d.gateway.logger.LogError(ctx, "Failed to cancel inclusion mode.", logwrap.Err(err))
		return err
	}

	d.discovering = false
	d.allowTimer = nil
	d.allowExpiresAt = time.Time{}

	d.eventSender.sendEvent(capabilities.DeviceDiscoveryDisabled{
		Gateway: d.gateway,
	})

	return nil
}

func (d *ZWaveDeviceDiscovery) Status(ctx context.Context, device da.Device) (capabilities.DeviceDiscoveryStatus, error) {
	if da.DeviceIsNotGatewaySelf(d.gateway, device) {
		return capabilities.DeviceDiscoveryStatus{}, da.DeviceIsNotGatewaySelfDeviceError
	}

	remainingDuration := time.Until(d.allowExpiresAt)
	if remainingDuration < 0 {
		remainingDuration = 0
	}

	return capabilities.DeviceDiscoveryStatus{Discovering: d.discovering, RemainingDuration: remainingDuration}, nil
}

func (d *ZWaveDeviceDiscovery) Stop() {
	if d.allowTimer != nil {
		d.allowTimer.Stop()
	}
}
