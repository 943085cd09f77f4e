// Package mapping translates between the tree's opcode vocabulary and the
// grid's element kinds.
//
// Both directions are lookup tables over closed enumerations. The forward
// table has no entry for MATH and MOV (or for block opcodes); [ElementKind]
// returns [Fallback] for them so the editor can still draw a cell. That
// mapping is lossy: a compare_eq element converts back to a comparison, never
// to the original math or move instruction.
//
// Comparison operators have a second, operator-keyed table. In reverse, all
// six compare kinds collapse to [ladder.OpCompare]; the operator itself is
// recovered from element properties by the caller, not from the kind.
package mapping

import (
	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ladder"
)

// Fallback is the element kind substituted for opcodes without a grid
// counterpart.
const Fallback = grid.CompareEQ

var opcodeToKind = map[ladder.Opcode]grid.Kind{
	ladder.OpLoad:    grid.ContactNO,
	ladder.OpLoadNot: grid.ContactNC,
	ladder.OpLoadP:   grid.ContactP,
	ladder.OpLoadF:   grid.ContactN,
	ladder.OpOut:     grid.CoilOut,
	ladder.OpSet:     grid.CoilSet,
	ladder.OpReset:   grid.CoilReset,
	ladder.OpTimer:   grid.Timer,
	ladder.OpCounter: grid.Counter,
	ladder.OpCompare: grid.CompareEQ,
}

var kindToOpcode = map[grid.Kind]ladder.Opcode{
	grid.ContactNO: ladder.OpLoad,
	grid.ContactNC: ladder.OpLoadNot,
	grid.ContactP:  ladder.OpLoadP,
	grid.ContactN:  ladder.OpLoadF,
	grid.CoilOut:   ladder.OpOut,
	grid.CoilSet:   ladder.OpSet,
	grid.CoilReset: ladder.OpReset,
	grid.Timer:     ladder.OpTimer,
	grid.Counter:   ladder.OpCounter,
	grid.CompareEQ: ladder.OpCompare,
	grid.CompareGT: ladder.OpCompare,
	grid.CompareLT: ladder.OpCompare,
	grid.CompareGE: ladder.OpCompare,
	grid.CompareLE: ladder.OpCompare,
	grid.CompareNE: ladder.OpCompare,
}

var operatorToKind = map[ladder.Operator]grid.Kind{
	ladder.OpEqual:        grid.CompareEQ,
	ladder.OpGreater:      grid.CompareGT,
	ladder.OpLess:         grid.CompareLT,
	ladder.OpGreaterEqual: grid.CompareGE,
	ladder.OpLessEqual:    grid.CompareLE,
	ladder.OpNotEqual:     grid.CompareNE,
}

var kindToOperator = map[grid.Kind]ladder.Operator{
	grid.CompareEQ: ladder.OpEqual,
	grid.CompareGT: ladder.OpGreater,
	grid.CompareLT: ladder.OpLess,
	grid.CompareGE: ladder.OpGreaterEqual,
	grid.CompareLE: ladder.OpLessEqual,
	grid.CompareNE: ladder.OpNotEqual,
}

// ElementKind returns the grid kind for op. For opcodes without a grid
// counterpart it returns Fallback and false. For OpCompare it returns the
// generic compare_eq kind; use CompareKind to honor the operator.
func ElementKind(op ladder.Opcode) (grid.Kind, bool) {
	if k, ok := opcodeToKind[op]; ok {
		return k, true
	}
	return Fallback, false
}

// Opcode returns the tree opcode for kind. Structural and unknown kinds
// report false.
func Opcode(kind grid.Kind) (ladder.Opcode, bool) {
	op, ok := kindToOpcode[kind]
	return op, ok
}

// CompareKind returns the operator-specific compare kind. Unknown operators
// map to compare_eq with false.
func CompareKind(op ladder.Operator) (grid.Kind, bool) {
	if k, ok := operatorToKind[op]; ok {
		return k, true
	}
	return grid.CompareEQ, false
}

// OperatorOf returns the operator implied by a compare kind.
func OperatorOf(kind grid.Kind) (ladder.Operator, bool) {
	op, ok := kindToOperator[kind]
	return op, ok
}

// KindOf returns the element kind that represents node n, honoring the
// comparison operator. The second result is false when n has no grid
// counterpart and Fallback was substituted.
func KindOf(n ladder.Node) (grid.Kind, bool) {
	if c, ok := n.(*ladder.Comparison); ok {
		return CompareKind(c.Operator)
	}
	return ElementKind(ladder.OpcodeOf(n))
}

// Polarity returns the contact polarity for a contact kind.
func Polarity(kind grid.Kind) (ladder.Polarity, bool) {
	switch kind {
	case grid.ContactNO:
		return ladder.NormallyOpen, true
	case grid.ContactNC:
		return ladder.NormallyClosed, true
	case grid.ContactP:
		return ladder.RisingEdge, true
	case grid.ContactN:
		return ladder.FallingEdge, true
	}
	return "", false
}

// CoilKind returns the coil kind for a coil element kind.
func CoilKind(kind grid.Kind) (ladder.CoilKind, bool) {
	switch kind {
	case grid.CoilOut:
		return ladder.CoilOutput, true
	case grid.CoilSet:
		return ladder.CoilSet, true
	case grid.CoilReset:
		return ladder.CoilReset, true
	}
	return "", false
}

// FormatAddress renders a as an element address string. The zero address
// renders as "".
func FormatAddress(a ladder.Address) string { return a.String() }

// FormatOperand renders o as an element operand string.
func FormatOperand(o ladder.Operand) string { return o.String() }

// OperandAddress returns the address string of o, or "" for literals.
func OperandAddress(o ladder.Operand) string {
	if o.IsLiteral() {
		return ""
	}
	return o.Address.String()
}
