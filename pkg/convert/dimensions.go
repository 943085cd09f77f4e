package convert

import "github.com/matzehuels/laddergrid/pkg/ladder"

// Dimensions returns the (rows, cols) footprint of n without placing
// anything. Empty blocks and nil measure (0, 0).
func Dimensions(n ladder.Node) (rows, cols int) {
	if n == nil {
		return 0, 0
	}
	b, ok := n.(*ladder.Block)
	if !ok {
		return 1, 1
	}
	for _, c := range b.Children {
		r, w := Dimensions(c)
		if b.Kind == ladder.Parallel {
			rows += r
			cols = max(cols, w)
		} else {
			cols += w
			rows = max(rows, r)
		}
	}
	return rows, cols
}

// NetworkDimensions returns the footprint of nodes laid out as an implicit
// series, ignoring position hints.
func NetworkDimensions(nodes []ladder.Node) (rows, cols int) {
	for _, n := range nodes {
		r, w := Dimensions(n)
		cols += w
		rows = max(rows, r)
	}
	return rows, cols
}
