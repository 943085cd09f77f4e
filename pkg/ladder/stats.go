package ladder

// Flatten returns the leaves of n in left-to-right, top-to-bottom order.
func Flatten(n Node) []Node {
	var out []Node
	walkLeaves(n, func(leaf Node) { out = append(out, leaf) })
	return out
}

func walkLeaves(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	b, ok := n.(*Block)
	if !ok {
		fn(n)
		return
	}
	for _, c := range b.Children {
		walkLeaves(c, fn)
	}
}

// CountLeaves returns the number of instruction nodes under n.
func CountLeaves(n Node) int {
	count := 0
	walkLeaves(n, func(Node) { count++ })
	return count
}

// CountBlocks returns the number of Block nodes in n, including n itself.
func CountBlocks(n Node) int {
	b, ok := n.(*Block)
	if !ok {
		return 0
	}
	count := 1
	for _, c := range b.Children {
		count += CountBlocks(c)
	}
	return count
}

// Depth returns the height of the tree: 0 for nil, 1 for a leaf.
func Depth(n Node) int {
	if n == nil {
		return 0
	}
	b, ok := n.(*Block)
	if !ok {
		return 1
	}
	deepest := 0
	for _, c := range b.Children {
		deepest = max(deepest, Depth(c))
	}
	return deepest + 1
}

// CountByOpcode tallies the leaves of n by opcode.
func CountByOpcode(n Node) map[Opcode]int {
	counts := make(map[Opcode]int)
	walkLeaves(n, func(leaf Node) { counts[OpcodeOf(leaf)]++ })
	return counts
}

// TopRow returns the smallest row hint among the leaves of n.
// It reports false when no leaf carries a position hint.
func TopRow(n Node) (int, bool) {
	top, found := 0, false
	walkLeaves(n, func(leaf Node) {
		p := leaf.Hint()
		if p == nil {
			return
		}
		if !found || p.Row < top {
			top, found = p.Row, true
		}
	})
	return top, found
}

// Summary aggregates the shape of a tree.
type Summary struct {
	Leaves   int            `json:"leaves"`
	Blocks   int            `json:"blocks"`
	Depth    int            `json:"depth"`
	ByOpcode map[Opcode]int `json:"by_opcode"`
}

// Summarize computes a Summary of n.
func Summarize(n Node) Summary {
	return Summary{
		Leaves:   CountLeaves(n),
		Blocks:   CountBlocks(n),
		Depth:    Depth(n),
		ByOpcode: CountByOpcode(n),
	}
}

// Equivalent reports whether a and b have the same structure and
// instruction operands. Identifiers, position hints and comments are ignored.
func Equivalent(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Block:
		y, ok := b.(*Block)
		if !ok || x.Kind != y.Kind || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equivalent(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case *Contact:
		y, ok := b.(*Contact)
		return ok && x.Polarity == y.Polarity && x.Address.Equal(y.Address)
	case *Coil:
		y, ok := b.(*Coil)
		return ok && x.Kind == y.Kind && x.Address.Equal(y.Address)
	case *Timer:
		y, ok := b.(*Timer)
		return ok && x.Address.Equal(y.Address) && x.Preset == y.Preset && x.TimeBase == y.TimeBase
	case *Counter:
		y, ok := b.(*Counter)
		return ok && x.Address.Equal(y.Address) && x.Preset == y.Preset && x.Direction == y.Direction
	case *Comparison:
		y, ok := b.(*Comparison)
		return ok && x.Operator == y.Operator && x.Left.Equal(y.Left) && x.Right.Equal(y.Right)
	case *Math:
		y, ok := b.(*Math)
		if !ok || x.Operation != y.Operation || !x.Dest.Equal(y.Dest) || len(x.Operands) != len(y.Operands) {
			return false
		}
		for i := range x.Operands {
			if !x.Operands[i].Equal(y.Operands[i]) {
				return false
			}
		}
		return true
	case *Move:
		y, ok := b.(*Move)
		return ok && x.Source.Equal(y.Source) && x.Dest.Equal(y.Dest)
	}
	return false
}
