// Package transform rewrites logic trees into canonical form.
//
// [Normalize] runs after reverse conversion. It removes empty and
// single-child blocks, splices same-kind nested blocks into their parent,
// and orders parallel branches by the row of their topmost element. The
// result satisfies [IsNormalized]:
//
//   - every block has at least two children
//   - no block directly contains a block of its own kind
//
// Normalize is idempotent: Normalize(Normalize(x)) is equivalent to
// Normalize(x).
package transform

import (
	"math"
	"slices"

	"github.com/matzehuels/laddergrid/pkg/ladder"
)

// Normalize returns the canonical form of n, or nil when n reduces to
// nothing. Leaves are returned as-is; blocks are copied, never mutated.
func Normalize(n ladder.Node) ladder.Node {
	b, ok := n.(*ladder.Block)
	if !ok {
		return n
	}

	children := make([]ladder.Node, 0, len(b.Children))
	for _, c := range b.Children {
		nc := Normalize(c)
		if nc == nil {
			continue
		}
		if cb, ok := nc.(*ladder.Block); ok && cb.Kind == b.Kind {
			children = append(children, cb.Children...)
			continue
		}
		children = append(children, nc)
	}

	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}

	if b.Kind == ladder.Parallel {
		slices.SortStableFunc(children, func(x, y ladder.Node) int {
			return topRow(x) - topRow(y)
		})
	}

	out := *b
	out.Children = children
	return &out
}

// topRow orders unpositioned subtrees after positioned ones.
func topRow(n ladder.Node) int {
	if r, ok := ladder.TopRow(n); ok {
		return r
	}
	return math.MaxInt32
}

// NormalizeNetwork normalizes each top-level node and drops the ones that
// reduce to nothing.
func NormalizeNetwork(nodes []ladder.Node) []ladder.Node {
	out := make([]ladder.Node, 0, len(nodes))
	for _, n := range nodes {
		if nn := Normalize(n); nn != nil {
			out = append(out, nn)
		}
	}
	return out
}

// IsNormalized reports whether every block in n has at least two children
// and none directly contains a block of its own kind.
func IsNormalized(n ladder.Node) bool {
	b, ok := n.(*ladder.Block)
	if !ok {
		return true
	}
	if len(b.Children) < 2 {
		return false
	}
	for _, c := range b.Children {
		if cb, ok := c.(*ladder.Block); ok && cb.Kind == b.Kind {
			return false
		}
		if !IsNormalized(c) {
			return false
		}
	}
	return true
}
