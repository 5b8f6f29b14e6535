package rules

import (
	"fmt"

	"github.com/antonmedv/expr"
	"github.com/shimmeringbee/zwd/ozw"
)

// CompileSchemas compiles every schema filter expression. Schemas without a
// filter are left untouched. Compilation happens once at startup, evaluation
// is then allocation light on the notification path.
func CompileSchemas(schemas []*Schema) error {
	for _, s := range schemas {
		if s.Filter == "" {
			continue
		}

		p, err := expr.Compile(s.Filter, expr.Env(Input{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("schema filter compilation: %s: %w", s.Component, err)
		}

		s.compiledFilter = p
	}

	return nil
}

// MatchesFilter evaluates the schema's compiled filter against node and
// value. Schemas without a filter always pass. An evaluation error counts as
// a mismatch rather than propagating, a schema that cannot be evaluated must
// not claim a value.
func (s *Schema) MatchesFilter(node ozw.Node, value ozw.Value) bool {
	if s.compiledFilter == nil {
		return true
	}

	out, err := expr.Run(s.compiledFilter, Input{
		Node: InputNode{
			ManufacturerID: node.ManufacturerID,
			ProductType:    node.ProductType,
			ProductID:      node.ProductID,
			GenericType:    node.GenericType,
			SpecificType:   node.SpecificType,
		},
		Value: InputValue{
			CommandClass: uint8(value.CommandClass),
			Instance:     value.Instance,
			Index:        value.Index,
			Genre:        uint8(value.Genre),
			Label:        value.Label,
		},
	})
	if err != nil {
		return false
	}

	b, ok := out.(bool)
	return ok && b
}
