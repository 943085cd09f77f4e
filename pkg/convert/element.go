package convert

import (
	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/mapping"
)

// NodeToElement builds the grid element for leaf n at pos. The element ID is
// left empty for the caller to assign. The second result is false when n
// has no grid counterpart and was mapped to mapping.Fallback.
func NodeToElement(n ladder.Node, pos grid.Position) (grid.Element, bool) {
	kind, ok := mapping.KindOf(n)
	el := grid.Element{Kind: kind, Position: pos, Label: n.Note()}

	switch n := n.(type) {
	case *ladder.Contact:
		el.Address = mapping.FormatAddress(n.Address)
	case *ladder.Coil:
		el.Address = mapping.FormatAddress(n.Address)
	case *ladder.Timer:
		el.Address = mapping.FormatAddress(n.Address)
		el.Properties.Preset = n.Preset
		el.Properties.TimeBase = string(n.TimeBase)
	case *ladder.Counter:
		el.Address = mapping.FormatAddress(n.Address)
		el.Properties.Preset = n.Preset
		el.Properties.Direction = string(n.Direction)
	case *ladder.Comparison:
		el.Address = mapping.OperandAddress(n.Left)
		el.Properties.Operator = string(n.Operator)
		el.Properties.Operand1 = mapping.FormatOperand(n.Left)
		el.Properties.Operand2 = mapping.FormatOperand(n.Right)
	case *ladder.Math:
		// Drawn as "dest = first operand"; the operation itself is lost.
		el.Address = mapping.FormatAddress(n.Dest)
		el.Properties.Operator = string(ladder.OpEqual)
		el.Properties.Operand1 = mapping.FormatAddress(n.Dest)
		if len(n.Operands) > 0 {
			el.Properties.Operand2 = mapping.FormatOperand(n.Operands[0])
		}
		if el.Label == "" {
			el.Label = n.Operation
		}
	case *ladder.Move:
		el.Address = mapping.FormatAddress(n.Dest)
		el.Properties.Operator = string(ladder.OpEqual)
		el.Properties.Operand1 = mapping.FormatAddress(n.Dest)
		el.Properties.Operand2 = mapping.FormatOperand(n.Source)
		if el.Label == "" {
			el.Label = string(ladder.OpMove)
		}
	}
	return el, ok
}

// ElementToNode rebuilds the leaf node for el. It returns nil for
// structural elements, unknown kinds, and elements whose address, operands,
// time base or count direction do not parse.
func ElementToNode(el grid.Element) ladder.Node {
	op, ok := mapping.Opcode(el.Kind)
	if !ok {
		return nil
	}
	common := ladder.Common{
		ID:       el.ID,
		Position: &ladder.Position{Row: el.Position.Row, Column: el.Position.Column},
		Comment:  el.Label,
	}

	switch op {
	case ladder.OpLoad, ladder.OpLoadNot, ladder.OpLoadP, ladder.OpLoadF:
		addr, ok := ladder.ParseAddress(el.Address)
		if !ok {
			return nil
		}
		pol, _ := mapping.Polarity(el.Kind)
		return &ladder.Contact{Common: common, Address: addr, Polarity: pol}

	case ladder.OpOut, ladder.OpSet, ladder.OpReset:
		addr, ok := ladder.ParseAddress(el.Address)
		if !ok {
			return nil
		}
		kind, _ := mapping.CoilKind(el.Kind)
		return &ladder.Coil{Common: common, Address: addr, Kind: kind}

	case ladder.OpTimer:
		addr, ok := ladder.ParseAddress(el.Address)
		if !ok {
			return nil
		}
		base := ladder.TimeBase(el.Properties.TimeBase)
		if base == "" {
			base = ladder.TimeBase100ms
		}
		if !base.Valid() {
			return nil
		}
		return &ladder.Timer{Common: common, Address: addr, Preset: el.Properties.Preset, TimeBase: base}

	case ladder.OpCounter:
		addr, ok := ladder.ParseAddress(el.Address)
		if !ok {
			return nil
		}
		dir := ladder.CountDirection(el.Properties.Direction)
		if dir == "" {
			dir = ladder.CountUp
		}
		if !dir.Valid() {
			return nil
		}
		return &ladder.Counter{Common: common, Address: addr, Preset: el.Properties.Preset, Direction: dir}

	case ladder.OpCompare:
		return compareNode(common, el)
	}
	return nil
}

// compareNode recovers the operator from the element properties, using the
// kind tag only when the property is absent or unknown.
func compareNode(common ladder.Common, el grid.Element) ladder.Node {
	operator := ladder.Operator(el.Properties.Operator)
	if !operator.Valid() {
		operator, _ = mapping.OperatorOf(el.Kind)
	}

	first := el.Properties.Operand1
	if first == "" {
		first = el.Address
	}
	left, ok := ladder.ParseOperand(first)
	if !ok {
		return nil
	}
	right, ok := ladder.ParseOperand(el.Properties.Operand2)
	if !ok {
		return nil
	}
	return &ladder.Comparison{Common: common, Operator: operator, Left: left, Right: right}
}
