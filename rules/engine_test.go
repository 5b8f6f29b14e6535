package rules

import (
	"testing"

	"github.com/shimmeringbee/zwd/ozw"
	"github.com/stretchr/testify/assert"
)

func TestCompileSchemas(t *testing.T) {
	t.Run("a schema without a filter compiles and always passes", func(t *testing.T) {
		s := &Schema{Component: "switch"}

		assert.NoError(t, CompileSchemas([]*Schema{s}))
		assert.True(t, s.MatchesFilter(ozw.Node{}, ozw.Value{}))
	})

	t.Run("an invalid filter expression fails compilation", func(t *testing.T) {
		s := &Schema{Component: "switch", Filter: "Value.CommandClass =="}

		assert.Error(t, CompileSchemas([]*Schema{s}))
	})

	t.Run("a filter narrows matching on node and value fields", func(t *testing.T) {
		s := &Schema{
			Component: "sensor",
			Filter:    `!(Value.CommandClass == 0x32 && Node.GenericType == "switch_binary")`,
		}
		assert.NoError(t, CompileSchemas([]*Schema{s}))

		meterOnSwitch := ozw.Value{CommandClass: ozw.CommandClassMeter}
		assert.False(t, s.MatchesFilter(ozw.Node{GenericType: "switch_binary"}, meterOnSwitch))
		assert.True(t, s.MatchesFilter(ozw.Node{GenericType: "sensor_multilevel"}, meterOnSwitch))
	})
}
