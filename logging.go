package zwd

import (
	"log"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/logwrap/impl/golog"
)

func (g *ZWaveGateway) WithGoLogger(parentLogger *log.Logger) {
	g.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (g *ZWaveGateway) WithLogWrapLogger(lw logwrap.Logger) {
	g.logger = lw
}

func discardLogger() logwrap.Logger {
	return logwrap.New(discard.Discard())
}
