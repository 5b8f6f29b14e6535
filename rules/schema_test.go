package rules

import (
	"testing"

	"github.com/shimmeringbee/zwd/ozw"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	node := ozw.Node{ID: 2, GenericType: "switch_binary"}

	t.Run("a value whose command class is in the accepted set matches", func(t *testing.T) {
		rule := ValueRule{CommandClass: []ozw.CommandClass{ozw.CommandClassSensorBinary}}
		value := ozw.Value{CommandClass: ozw.CommandClassSensorBinary}

		assert.True(t, Matches(node, value, rule))
	})

	t.Run("a value whose command class is outside the accepted set does not match", func(t *testing.T) {
		rule := ValueRule{CommandClass: []ozw.CommandClass{ozw.CommandClassSensorBinary}}
		value := ozw.Value{CommandClass: ozw.CommandClassMeter}

		assert.False(t, Matches(node, value, rule))
	})

	t.Run("a genre restriction excludes values of other genres", func(t *testing.T) {
		rule := ValueRule{
			CommandClass: []ozw.CommandClass{ozw.CommandClassSwitchBinary},
			Genre:        []ozw.ValueGenre{ozw.GenreUser},
		}

		userValue := ozw.Value{CommandClass: ozw.CommandClassSwitchBinary, Genre: ozw.GenreUser}
		systemValue := ozw.Value{CommandClass: ozw.CommandClassSwitchBinary, Genre: ozw.GenreSystem}

		assert.True(t, Matches(node, userValue, rule))
		assert.False(t, Matches(node, systemValue, rule))
	})

	t.Run("a kind restriction excludes values carrying other payload kinds", func(t *testing.T) {
		rule := ValueRule{
			CommandClass: []ozw.CommandClass{ozw.CommandClassSensorBinary},
			Kind:         []ozw.ValueKind{ozw.KindBool},
		}

		boolValue := ozw.Value{CommandClass: ozw.CommandClassSensorBinary, Data: ozw.BoolDatum(true)}
		numberValue := ozw.Value{CommandClass: ozw.CommandClassSensorBinary, Data: ozw.NumberDatum(1)}

		assert.True(t, Matches(node, boolValue, rule))
		assert.False(t, Matches(node, numberValue, rule))
	})

	t.Run("an index restriction excludes values at other indexes", func(t *testing.T) {
		rule := ValueRule{
			CommandClass: []ozw.CommandClass{ozw.CommandClassSwitchMultilevel},
			Index:        []uint8{0},
		}

		levelValue := ozw.Value{CommandClass: ozw.CommandClassSwitchMultilevel, Index: 0}
		durationValue := ozw.Value{CommandClass: ozw.CommandClassSwitchMultilevel, Index: 5}

		assert.True(t, Matches(node, levelValue, rule))
		assert.False(t, Matches(node, durationValue, rule))
	})
}

func TestSchemaMatchesNode(t *testing.T) {
	t.Run("a schema without device class constraints accepts any node", func(t *testing.T) {
		s := &Schema{Component: "switch"}

		assert.True(t, s.MatchesNode(ozw.Node{GenericType: "anything"}))
	})

	t.Run("a generic device class restriction excludes other nodes", func(t *testing.T) {
		s := &Schema{Component: "light", GenericDeviceClass: []string{"switch_multilevel"}}

		assert.True(t, s.MatchesNode(ozw.Node{GenericType: "switch_multilevel"}))
		assert.False(t, s.MatchesNode(ozw.Node{GenericType: "switch_binary"}))
	})

	t.Run("a specific device class restriction excludes other nodes", func(t *testing.T) {
		s := &Schema{
			Component:           "cover",
			SpecificDeviceClass: []string{"motor_multiposition"},
		}

		assert.True(t, s.MatchesNode(ozw.Node{SpecificType: "motor_multiposition"}))
		assert.False(t, s.MatchesNode(ozw.Node{SpecificType: "power_switch"}))
	})
}

func TestDefaultSchemas(t *testing.T) {
	t.Run("a fan switch claims the fan schema ahead of light", func(t *testing.T) {
		node := ozw.Node{GenericType: "switch_multilevel", SpecificType: "fan_switch"}
		value := ozw.Value{CommandClass: ozw.CommandClassSwitchMultilevel, Genre: ozw.GenreUser, Index: 0}

		for _, s := range DefaultSchemas() {
			if s.MatchesNode(node) && Matches(node, value, s.Values[RolePrimary]) {
				assert.Equal(t, "fan", s.Component)
				return
			}
		}

		t.Fatal("no schema matched the fan switch")
	})

	t.Run("every default schema declares a primary role and compiles", func(t *testing.T) {
		schemas := DefaultSchemas()
		assert.NoError(t, CompileSchemas(schemas))

		for _, s := range schemas {
			_, found := s.Values[RolePrimary]
			assert.True(t, found, "schema %s missing primary role", s.Component)
		}
	})
}
