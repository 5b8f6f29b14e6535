package ozw

import (
	"fmt"
	"strconv"
)

// NodeID identifies a single physical device on the mesh. Valid Z-Wave node
// identifiers are 1-232, 0 is reserved.
type NodeID uint8

func (n NodeID) String() string {
	return strconv.Itoa(int(n))
}

// ValueID is the opaque identifier the native library assigns to a single
// data point. Unique within a network for the lifetime of the value.
type ValueID uint64

func (v ValueID) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// ValueGenre partitions values into those intended for end users and those
// which configure or report on the device itself.
type ValueGenre uint8

const (
	GenreUser ValueGenre = iota
	GenreConfig
	GenreSystem
)

// ValueKind tags the Datum variant a value carries.
type ValueKind uint8

const (
	KindBool ValueKind = iota
	KindNumber
	KindString
	KindList
	KindButton
)

// Datum is a value's payload, resolved to a typed variant once at ingestion
// rather than carried as a dynamically typed blob. For KindList the String
// field holds the selected item, the owning Value's ItemList the choices.
type Datum struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	String string
}

func BoolDatum(b bool) Datum {
	return Datum{Kind: KindBool, Bool: b}
}

func NumberDatum(n float64) Datum {
	return Datum{Kind: KindNumber, Number: n}
}

func StringDatum(s string) Datum {
	return Datum{Kind: KindString, String: s}
}

func ListDatum(selected string) Datum {
	return Datum{Kind: KindList, String: selected}
}

// Value is a single reported or controllable data point on a node.
type Value struct {
	ID           ValueID
	NodeID       NodeID
	CommandClass CommandClass
	Instance     uint8
	Index        uint8
	Genre        ValueGenre
	Label        string
	Units        string
	Precision    uint8
	Data         Datum
	ItemList     []string
	ReadOnly     bool
}

// ListItemIndex returns the position of the currently selected item within
// ItemList, or false if the value is not a list or the selection is unknown.
func (v Value) ListItemIndex() (int, bool) {
	if v.Data.Kind != KindList {
		return 0, false
	}

	for i, item := range v.ItemList {
		if item == v.Data.String {
			return i, true
		}
	}

	return 0, false
}

func (v Value) String() string {
	return fmt.Sprintf("%s[node %d, instance %d, index %d]", v.CommandClass, v.NodeID, v.Instance, v.Index)
}
