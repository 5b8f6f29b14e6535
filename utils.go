package zwd

import (
	"math"
	"strings"
	"unicode"

	"github.com/shimmeringbee/zwd/ozw"
)

// safeValues shields callers from a native value store observed mid
// mutation, degrading to no values rather than propagating a panic. Absence
// is a valid, non fatal state for every caller.
func safeValues(fn func() []*ozw.Value) (vals []*ozw.Value) {
	defer func() {
		if r := recover(); r != nil {
			vals = nil
		}
	}()

	return fn()
}

// slugify lowercases and collapses a label into an identifier fragment,
// matching the host framework's entity id conventions.
func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.TrimRight(b.String(), "_")
}

// roundTo rounds v to the given number of decimal places, keeping projected
// attribute values stable for display.
func roundTo(v float64, places uint8) float64 {
	shift := math.Pow10(int(places))
	return math.Round(v*shift) / shift
}

func valueLabel(v *ozw.Value) string {
	if v.Label == "" {
		return "Unknown"
	}

	return v.Label
}

// objectID derives the entity id fragment for a primary value, combining the
// slugified display name with the owning node id.
func objectID(node *internalNode, v *ozw.Value) string {
	return slugify(node.displayName()+" "+valueLabel(v)) + "_" + node.id.String()
}
