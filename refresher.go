package zwd

import (
	"context"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/zwd/ozw"
)

const refresherBacklog = 200
const refresherWorkers = 2
const refresherMaximumJobDuration = 15 * time.Second

// zwdRefresher re-requests a value from its device a short delay after it
// reports, for devices that are known to report stale state on their first
// notification. Entities opt in through the refresh_value and delay
// configuration keys.
type zwdRefresher struct {
	gateway *ZWaveGateway

	refreshWork chan refreshWork
	refreshStop chan bool
}

type refreshWork struct {
	value ozw.ValueID
	delay time.Duration
}

func newRefresher(g *ZWaveGateway) *zwdRefresher {
	return &zwdRefresher{
		gateway:     g,
		refreshWork: make(chan refreshWork, refresherBacklog),
	}
}

func (r *zwdRefresher) Start() {
	r.refreshStop = make(chan bool, refresherWorkers)

	for i := 0; i < refresherWorkers; i++ {
		go r.worker()
	}
}

func (r *zwdRefresher) Stop() {
	if r.refreshStop == nil {
		return
	}

	for i := 0; i < refresherWorkers; i++ {
		r.refreshStop <- true
	}
}

// Schedule queues a one shot refresh of value after delay. A full backlog
// drops the refresh, the device will be asked again on its next report.
func (r *zwdRefresher) Schedule(value ozw.ValueID, delay time.Duration) {
	time.AfterFunc(delay, func() {
		select {
		case r.refreshWork <- refreshWork{value: value, delay: delay}:
		default:
			r.gateway.logger.LogWarn(context.Background(), "Refresh backlog full, dropping value refresh.", logwrap.Datum("ValueID", value.String()))
		}
	})
}

func (r *zwdRefresher) worker() {
	for {
		select {
		case work := <-r.refreshWork:
			ctx, cancel := context.WithTimeout(context.Background(), refresherMaximumJobDuration)

			if err := r.gateway.driver.RefreshValue(ctx, work.value); err != nil {
				r.gateway.logger.LogWarn(ctx, "Failed to refresh value after report.", logwrap.Datum("ValueID", work.value.String()), logwrap.Err(err))
			}

			cancel()
		case <-r.refreshStop:
			return
		}
	}
}
