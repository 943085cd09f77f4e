// Package grid defines the two-dimensional element and wire vocabulary of
// the ladder editor.
//
// Elements occupy one (row, column) cell each. Wires connect element ports
// and carry the topology the editor draws; vertical wires are also the only
// input the reverse converter uses to infer parallel branches.
//
// All types are plain values with JSON tags so a [Snapshot] of the live
// editor state, or a [ConversionResult], can be exchanged as-is.
package grid

// Kind is the element type tag.
type Kind string

// Element kinds.
const (
	ContactNO   Kind = "contact_no"
	ContactNC   Kind = "contact_nc"
	ContactP    Kind = "contact_p"
	ContactN    Kind = "contact_n"
	CoilOut     Kind = "coil_out"
	CoilSet     Kind = "coil_set"
	CoilReset   Kind = "coil_reset"
	Timer       Kind = "timer"
	Counter     Kind = "counter"
	CompareEQ   Kind = "compare_eq"
	CompareGT   Kind = "compare_gt"
	CompareLT   Kind = "compare_lt"
	CompareGE   Kind = "compare_ge"
	CompareLE   Kind = "compare_le"
	CompareNE   Kind = "compare_ne"
	WireSegment Kind = "wire"
	Rail        Kind = "rail"
)

// Kinds lists every element kind.
var Kinds = []Kind{
	ContactNO, ContactNC, ContactP, ContactN,
	CoilOut, CoilSet, CoilReset,
	Timer, Counter,
	CompareEQ, CompareGT, CompareLT, CompareGE, CompareLE, CompareNE,
	WireSegment, Rail,
}

// Structural reports whether k is a wire segment or a rail. Structural
// elements never take part in semantic groupings.
func (k Kind) Structural() bool { return k == WireSegment || k == Rail }

// IsCompare reports whether k is one of the six compare kinds.
func (k Kind) IsCompare() bool {
	switch k {
	case CompareEQ, CompareGT, CompareLT, CompareGE, CompareLE, CompareNE:
		return true
	}
	return false
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

// Position is a grid cell.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Add returns p offset by dr rows and dc columns.
func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Column: p.Column + dc}
}

// Properties holds kind-specific element data. Unused fields stay zero.
type Properties struct {
	Preset    int    `json:"preset,omitempty"`
	TimeBase  string `json:"time_base,omitempty"`
	Direction string `json:"direction,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Operand1  string `json:"operand1,omitempty"`
	Operand2  string `json:"operand2,omitempty"`
}

// Element is a placed instruction.
type Element struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	Position   Position   `json:"position"`
	Address    string     `json:"address"`
	Label      string     `json:"label,omitempty"`
	Properties Properties `json:"properties"`
}

// Port is a connection side of an element.
type Port string

const (
	PortLeft   Port = "left"
	PortRight  Port = "right"
	PortTop    Port = "top"
	PortBottom Port = "bottom"
)

// WireKind is the routing shape of a wire.
type WireKind string

const (
	Horizontal WireKind = "horizontal"
	Vertical   WireKind = "vertical"
	Corner     WireKind = "corner"
)

// Endpoint is one end of a wire.
type Endpoint struct {
	ElementID string `json:"element_id"`
	Port      Port   `json:"port"`
}

// Wire connects two element ports. Energized is a runtime display flag and
// is never set or read by the converters.
type Wire struct {
	ID        string   `json:"id"`
	From      Endpoint `json:"from"`
	To        Endpoint `json:"to"`
	Kind      WireKind `json:"kind"`
	Energized bool     `json:"energized,omitempty"`
}

// ConversionResult is the output of a forward conversion.
//
// RowCount is one past the largest row used and MaxColumn is the largest
// column used, both measured over the placed elements. An empty result has
// RowCount 0 and MaxColumn -1. Fallbacks lists identifiers of tree nodes
// that had no grid counterpart and were placed with a substitute kind.
type ConversionResult struct {
	Elements  []Element `json:"elements"`
	Wires     []Wire    `json:"wires"`
	RowCount  int       `json:"row_count"`
	MaxColumn int       `json:"max_column"`
	Fallbacks []string  `json:"fallbacks,omitempty"`
}

// Empty reports whether r placed no elements.
func (r ConversionResult) Empty() bool { return len(r.Elements) == 0 }

// Snapshot returns the result as an editor snapshot.
func (r ConversionResult) Snapshot() Snapshot {
	return Snapshot{Elements: r.Elements, Wires: r.Wires}
}

// Snapshot is the editor's live grid state.
type Snapshot struct {
	Elements []Element `json:"elements"`
	Wires    []Wire    `json:"wires"`
}

// ElementMap indexes the snapshot's elements by ID. Later duplicates
// replace earlier ones.
func (s Snapshot) ElementMap() map[string]Element {
	m := make(map[string]Element, len(s.Elements))
	for _, el := range s.Elements {
		m[el.ID] = el
	}
	return m
}

// CountByKind tallies elements by kind.
func CountByKind(elements []Element) map[Kind]int {
	counts := make(map[Kind]int)
	for _, el := range elements {
		counts[el.Kind]++
	}
	return counts
}
