package rules

import (
	"github.com/antonmedv/expr/vm"
	"github.com/shimmeringbee/zwd/ozw"
)

// RolePrimary is the reserved role name for the value that triggers entity
// creation. All other role names in a schema are free form.
const RolePrimary = "primary"

// ValueRule describes which values may fill a single named role.
type ValueRule struct {
	CommandClass []ozw.CommandClass
	Genre        []ozw.ValueGenre
	Kind         []ozw.ValueKind
	Index        []uint8
	Optional     bool
}

// Schema declares one entity shape: the host component it maps onto and the
// roles companion values may fill. Filter optionally narrows the schema with
// a compiled expression over node and primary value, for constraints the
// static rule fields cannot express.
type Schema struct {
	Component           string
	GenericDeviceClass  []string
	SpecificDeviceClass []string
	Values              map[string]ValueRule
	Filter              string
	compiledFilter      *vm.Program
}

// Input is the environment a schema filter expression is evaluated against.
type Input struct {
	Node  InputNode
	Value InputValue
}

type InputNode struct {
	ManufacturerID string
	ProductType    string
	ProductID      string
	GenericType    string
	SpecificType   string
}

type InputValue struct {
	CommandClass uint8
	Instance     uint8
	Index        uint8
	Genre        uint8
	Label        string
}

// Matches reports whether value may fill the role described by rule on the
// given node. A value matches iff its command class is in the accepted set
// and every constraint the rule declares holds.
func Matches(node ozw.Node, value ozw.Value, rule ValueRule) bool {
	if !commandClassIn(rule.CommandClass, value.CommandClass) {
		return false
	}

	if len(rule.Genre) > 0 && !genreIn(rule.Genre, value.Genre) {
		return false
	}

	if len(rule.Kind) > 0 && !kindIn(rule.Kind, value.Data.Kind) {
		return false
	}

	if len(rule.Index) > 0 && !indexIn(rule.Index, value.Index) {
		return false
	}

	return true
}

// MatchesNode reports whether the schema's node level device class
// constraints hold for node.
func (s *Schema) MatchesNode(node ozw.Node) bool {
	if len(s.GenericDeviceClass) > 0 && !stringIn(s.GenericDeviceClass, node.GenericType) {
		return false
	}

	if len(s.SpecificDeviceClass) > 0 && !stringIn(s.SpecificDeviceClass, node.SpecificType) {
		return false
	}

	return true
}

func commandClassIn(haystack []ozw.CommandClass, needle ozw.CommandClass) bool {
	for _, cc := range haystack {
		if cc == needle {
			return true
		}
	}

	return false
}

func genreIn(haystack []ozw.ValueGenre, needle ozw.ValueGenre) bool {
	for _, g := range haystack {
		if g == needle {
			return true
		}
	}

	return false
}

func kindIn(haystack []ozw.ValueKind, needle ozw.ValueKind) bool {
	for _, k := range haystack {
		if k == needle {
			return true
		}
	}

	return false
}

func indexIn(haystack []uint8, needle uint8) bool {
	for _, i := range haystack {
		if i == needle {
			return true
		}
	}

	return false
}

func stringIn(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}

	return false
}
