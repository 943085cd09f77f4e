// Package program reads and writes logic trees, programs and grid
// documents as JSON.
//
// Tree nodes are encoded with a "type" discriminator:
//
//	{"type": "series", "children": [
//	  {"type": "parallel", "children": [
//	    {"type": "contact", "address": "M0000"},
//	    {"type": "contact", "address": "M0001", "polarity": "nc"}
//	  ]},
//	  {"type": "coil", "address": "P0040"}
//	]}
//
// Leaf types are contact, coil, timer, counter, compare, math and move;
// block types are series and parallel. Optional fields default as follows:
// contact polarity "no", coil kind "out", timer time_base "100ms", counter
// direction "up".
//
// Decoding is strict: an unknown type, an unparsable address, an invalid
// enumeration value or an empty block is rejected with an
// [errors.ErrCodeInvalidProgram] error. Empty blocks are a converter-internal
// artifact and never valid program input.
package program

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/ladder"
)

// Node type discriminators.
const (
	TypeContact  = "contact"
	TypeCoil     = "coil"
	TypeTimer    = "timer"
	TypeCounter  = "counter"
	TypeCompare  = "compare"
	TypeMath     = "math"
	TypeMove     = "move"
	TypeSeries   = "series"
	TypeParallel = "parallel"
)

// Node is the serialized form of a ladder.Node.
type Node struct {
	Type     string    `json:"type"`
	ID       string    `json:"id,omitempty"`
	Position *Position `json:"position,omitempty"`
	Comment  string    `json:"comment,omitempty"`

	Address   string   `json:"address,omitempty"`
	Polarity  string   `json:"polarity,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	Preset    int      `json:"preset,omitempty"`
	TimeBase  string   `json:"time_base,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Operator  string   `json:"operator,omitempty"`
	Left      string   `json:"left,omitempty"`
	Right     string   `json:"right,omitempty"`
	Operation string   `json:"operation,omitempty"`
	Operands  []string `json:"operands,omitempty"`
	Source    string   `json:"source,omitempty"`
	Dest      string   `json:"dest,omitempty"`

	Children []Node `json:"children,omitempty"`
}

// Position is the serialized position hint.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Network is the serialized form of a ladder.Network.
type Network struct {
	Step    int    `json:"step"`
	Comment string `json:"comment,omitempty"`
	Nodes   []Node `json:"nodes"`
}

// Program is the serialized form of a ladder.Program.
type Program struct {
	Name     string    `json:"name,omitempty"`
	Networks []Network `json:"networks"`
}

// =============================================================================
// Encoding
// =============================================================================

// FromNode converts a tree into its serialized form. A nil node yields nil.
func FromNode(n ladder.Node) *Node {
	if n == nil {
		return nil
	}
	out := Node{ID: n.NodeID(), Comment: n.Note()}
	if p := n.Hint(); p != nil {
		out.Position = &Position{Row: p.Row, Column: p.Column}
	}

	switch n := n.(type) {
	case *ladder.Contact:
		out.Type = TypeContact
		out.Address = n.Address.String()
		out.Polarity = string(n.Polarity)
	case *ladder.Coil:
		out.Type = TypeCoil
		out.Address = n.Address.String()
		out.Kind = string(n.Kind)
	case *ladder.Timer:
		out.Type = TypeTimer
		out.Address = n.Address.String()
		out.Preset = n.Preset
		out.TimeBase = string(n.TimeBase)
	case *ladder.Counter:
		out.Type = TypeCounter
		out.Address = n.Address.String()
		out.Preset = n.Preset
		out.Direction = string(n.Direction)
	case *ladder.Comparison:
		out.Type = TypeCompare
		out.Operator = string(n.Operator)
		out.Left = n.Left.String()
		out.Right = n.Right.String()
	case *ladder.Math:
		out.Type = TypeMath
		out.Operation = n.Operation
		out.Dest = n.Dest.String()
		for _, o := range n.Operands {
			out.Operands = append(out.Operands, o.String())
		}
	case *ladder.Move:
		out.Type = TypeMove
		out.Source = n.Source.String()
		out.Dest = n.Dest.String()
	case *ladder.Block:
		out.Type = string(n.Kind)
		out.Children = make([]Node, 0, len(n.Children))
		for _, c := range n.Children {
			if sc := FromNode(c); sc != nil {
				out.Children = append(out.Children, *sc)
			}
		}
	}
	return &out
}

// FromProgram converts a program into its serialized form.
func FromProgram(p ladder.Program) Program {
	out := Program{Name: p.Name, Networks: make([]Network, 0, len(p.Networks))}
	for _, nw := range p.Networks {
		sn := Network{Step: nw.Step, Comment: nw.Comment, Nodes: make([]Node, 0, len(nw.Nodes))}
		for _, n := range nw.Nodes {
			if sc := FromNode(n); sc != nil {
				sn.Nodes = append(sn.Nodes, *sc)
			}
		}
		out.Networks = append(out.Networks, sn)
	}
	return out
}

// MarshalNode encodes a tree as JSON. A nil node encodes as "null".
func MarshalNode(n ladder.Node) ([]byte, error) {
	return json.Marshal(FromNode(n))
}

// =============================================================================
// Decoding
// =============================================================================

// UnmarshalNode decodes a JSON tree. "null" decodes to a nil node.
func UnmarshalNode(data []byte) (ladder.Node, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var sn Node
	if err := json.Unmarshal(data, &sn); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode node")
	}
	return sn.ToNode()
}

// ToNode validates the serialized node and converts it into a tree.
func (s Node) ToNode() (ladder.Node, error) {
	return s.toNode("$")
}

func (s Node) toNode(path string) (ladder.Node, error) {
	if err := errors.ValidateIdentifier(s.ID); err != nil {
		return nil, invalid(path, "id: %s", errors.UserMessage(err))
	}
	common := ladder.Common{ID: s.ID, Comment: s.Comment}
	if s.Position != nil {
		common.Position = &ladder.Position{Row: s.Position.Row, Column: s.Position.Column}
	}

	switch s.Type {
	case TypeContact:
		addr, err := address(path, "address", s.Address)
		if err != nil {
			return nil, err
		}
		pol := ladder.Polarity(orDefault(s.Polarity, string(ladder.NormallyOpen)))
		if !pol.Valid() {
			return nil, invalid(path, "unknown polarity %q", s.Polarity)
		}
		return &ladder.Contact{Common: common, Address: addr, Polarity: pol}, nil

	case TypeCoil:
		addr, err := address(path, "address", s.Address)
		if err != nil {
			return nil, err
		}
		kind := ladder.CoilKind(orDefault(s.Kind, string(ladder.CoilOutput)))
		if !kind.Valid() {
			return nil, invalid(path, "unknown coil kind %q", s.Kind)
		}
		return &ladder.Coil{Common: common, Address: addr, Kind: kind}, nil

	case TypeTimer:
		addr, err := address(path, "address", s.Address)
		if err != nil {
			return nil, err
		}
		base := ladder.TimeBase(orDefault(s.TimeBase, string(ladder.TimeBase100ms)))
		if !base.Valid() {
			return nil, invalid(path, "unknown time base %q", s.TimeBase)
		}
		return &ladder.Timer{Common: common, Address: addr, Preset: s.Preset, TimeBase: base}, nil

	case TypeCounter:
		addr, err := address(path, "address", s.Address)
		if err != nil {
			return nil, err
		}
		dir := ladder.CountDirection(orDefault(s.Direction, string(ladder.CountUp)))
		if !dir.Valid() {
			return nil, invalid(path, "unknown count direction %q", s.Direction)
		}
		return &ladder.Counter{Common: common, Address: addr, Preset: s.Preset, Direction: dir}, nil

	case TypeCompare:
		op := ladder.Operator(s.Operator)
		if !op.Valid() {
			return nil, invalid(path, "unknown operator %q", s.Operator)
		}
		left, err := operand(path, "left", s.Left)
		if err != nil {
			return nil, err
		}
		right, err := operand(path, "right", s.Right)
		if err != nil {
			return nil, err
		}
		return &ladder.Comparison{Common: common, Operator: op, Left: left, Right: right}, nil

	case TypeMath:
		dest, err := address(path, "dest", s.Dest)
		if err != nil {
			return nil, err
		}
		m := &ladder.Math{Common: common, Operation: s.Operation, Dest: dest}
		for i, raw := range s.Operands {
			o, err := operand(path, fmt.Sprintf("operands[%d]", i), raw)
			if err != nil {
				return nil, err
			}
			m.Operands = append(m.Operands, o)
		}
		return m, nil

	case TypeMove:
		src, err := operand(path, "source", s.Source)
		if err != nil {
			return nil, err
		}
		dest, err := address(path, "dest", s.Dest)
		if err != nil {
			return nil, err
		}
		return &ladder.Move{Common: common, Source: src, Dest: dest}, nil

	case TypeSeries, TypeParallel:
		if len(s.Children) == 0 {
			return nil, invalid(path, "empty %s block", s.Type)
		}
		b := &ladder.Block{Common: common, Kind: ladder.BlockKind(s.Type)}
		for i, c := range s.Children {
			child, err := c.toNode(fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			b.Children = append(b.Children, child)
		}
		return b, nil
	}
	return nil, invalid(path, "unknown node type %q", s.Type)
}

// ToProgram validates the serialized program and converts it.
func (p Program) ToProgram() (ladder.Program, error) {
	out := ladder.Program{Name: p.Name, Networks: make([]ladder.Network, 0, len(p.Networks))}
	for i, nw := range p.Networks {
		ln := ladder.Network{Step: nw.Step, Comment: nw.Comment}
		for j, sn := range nw.Nodes {
			n, err := sn.toNode(fmt.Sprintf("networks[%d].nodes[%d]", i, j))
			if err != nil {
				return ladder.Program{}, err
			}
			ln.Nodes = append(ln.Nodes, n)
		}
		out.Networks = append(out.Networks, ln)
	}
	return out, nil
}

func address(path, field, s string) (ladder.Address, error) {
	a, ok := ladder.ParseAddress(s)
	if !ok {
		return ladder.Address{}, invalid(path, "%s: invalid address %q", field, s)
	}
	return a, nil
}

func operand(path, field, s string) (ladder.Operand, error) {
	o, ok := ladder.ParseOperand(s)
	if !ok {
		return ladder.Operand{}, invalid(path, "%s: invalid operand %q", field, s)
	}
	return o, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func invalid(path, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidProgram, "%s: %s", path, fmt.Sprintf(format, args...))
}
