package convert

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ids"
	"github.com/matzehuels/laddergrid/pkg/ladder"
	"github.com/matzehuels/laddergrid/pkg/ladder/transform"
)

// RowGroups maps a row index to its non-structural elements, sorted by
// column.
type RowGroups map[int][]grid.Element

// Rows returns the populated row indices in ascending order.
func (g RowGroups) Rows() []int {
	return slices.Sorted(maps.Keys(g))
}

// MaxColumn returns the largest column occupied in any of rows, or -1.
func (g RowGroups) MaxColumn(rows []int) int {
	col := -1
	for _, r := range rows {
		for _, el := range g[r] {
			col = max(col, el.Position.Column)
		}
	}
	return col
}

// ParallelGroup is one inferred branch region.
//
// The region starts at StartColumn. When another branch column follows,
// EndColumn is that column and is excluded from the region; otherwise
// EndColumn is the last occupied column of the participating rows and
// Inclusive is set.
type ParallelGroup struct {
	StartColumn int   `json:"start_column"`
	EndColumn   int   `json:"end_column"`
	Inclusive   bool  `json:"inclusive"`
	Rows        []int `json:"rows"`
}

// Contains reports whether col lies inside the group's column range.
func (g ParallelGroup) Contains(col int) bool {
	if col < g.StartColumn {
		return false
	}
	if g.Inclusive {
		return col <= g.EndColumn
	}
	return col < g.EndColumn
}

// GroupByRow buckets every non-structural element by row and sorts each
// bucket by column. Elements sharing a cell are ordered by ID; a valid grid
// has no such ties.
func GroupByRow(elements map[string]grid.Element) RowGroups {
	rows := make(RowGroups)
	for _, el := range elements {
		if el.Kind.Structural() {
			continue
		}
		rows[el.Position.Row] = append(rows[el.Position.Row], el)
	}
	for _, bucket := range rows {
		slices.SortFunc(bucket, func(a, b grid.Element) int {
			if a.Position.Column != b.Position.Column {
				return a.Position.Column - b.Position.Column
			}
			return strings.Compare(a.ID, b.ID)
		})
	}
	return rows
}

// DetectParallelGroups infers branch regions from vertical wires. Each
// vertical wire marks the rows of both endpoints as connected at the smaller
// of their two columns; a column joining two or more rows becomes a group.
// Wires with an unknown endpoint are ignored.
func DetectParallelGroups(elements map[string]grid.Element, wires []grid.Wire, rows RowGroups) []ParallelGroup {
	connected := make(map[int]map[int]bool)
	for _, w := range wires {
		if w.Kind != grid.Vertical {
			continue
		}
		from, ok := elements[w.From.ElementID]
		if !ok {
			continue
		}
		to, ok := elements[w.To.ElementID]
		if !ok {
			continue
		}
		col := min(from.Position.Column, to.Position.Column)
		if connected[col] == nil {
			connected[col] = make(map[int]bool)
		}
		connected[col][from.Position.Row] = true
		connected[col][to.Position.Row] = true
	}

	var columns []int
	for col, set := range connected {
		if len(set) >= 2 {
			columns = append(columns, col)
		}
	}
	slices.Sort(columns)

	groups := make([]ParallelGroup, 0, len(columns))
	for i, col := range columns {
		g := ParallelGroup{
			StartColumn: col,
			Rows:        slices.Sorted(maps.Keys(connected[col])),
		}
		if i+1 < len(columns) {
			g.EndColumn = columns[i+1]
		} else {
			g.EndColumn = rows.MaxColumn(g.Rows)
			g.Inclusive = true
		}
		groups = append(groups, g)
	}
	return groups
}

// rowItem is a reconstructed leaf with the element it came from.
type rowItem struct {
	element grid.Element
	node    ladder.Node
}

// BuildTree assembles an unnormalized tree from row groups and inferred
// parallel groups. Elements that do not convert to a node are skipped. It
// returns nil when nothing is left.
//
// Without groups, a single row becomes a series (or a lone leaf) and several
// rows become independent parallel branches. With groups, each group
// contributes one parallel block built from its rows' column slices, and
// elements not claimed by any group are added as extra branches per row.
func BuildTree(rows RowGroups, groups []ParallelGroup, gen ids.Generator) ladder.Node {
	if gen == nil {
		gen = ids.NewSequential()
	}
	items := make(map[int][]rowItem, len(rows))
	for r, bucket := range rows {
		for _, el := range bucket {
			if n := ElementToNode(el); n != nil {
				items[r] = append(items[r], rowItem{element: el, node: n})
			}
		}
	}
	order := slices.Sorted(maps.Keys(items))
	if len(order) == 0 {
		return nil
	}

	if len(groups) == 0 {
		if len(order) == 1 {
			return seriesOf(items[order[0]], gen)
		}
		branches := make([]ladder.Node, 0, len(order))
		for _, r := range order {
			branches = append(branches, seriesOf(items[r], gen))
		}
		return ladder.NewParallel(gen.Next(ids.PrefixNode), branches...)
	}

	claimed := make(map[string]bool)
	var branches []ladder.Node
	for _, g := range groups {
		var children []ladder.Node
		for _, r := range g.Rows {
			var slice []rowItem
			for _, it := range items[r] {
				if claimed[it.element.ID] || !g.Contains(it.element.Position.Column) {
					continue
				}
				claimed[it.element.ID] = true
				slice = append(slice, it)
			}
			if n := seriesOf(slice, gen); n != nil {
				children = append(children, n)
			}
		}
		if len(children) > 0 {
			branches = append(branches, ladder.NewParallel(gen.Next(ids.PrefixNode), children...))
		}
	}

	for _, r := range order {
		var rest []rowItem
		for _, it := range items[r] {
			if !claimed[it.element.ID] {
				rest = append(rest, it)
			}
		}
		if n := seriesOf(rest, gen); n != nil {
			branches = append(branches, n)
		}
	}

	switch len(branches) {
	case 0:
		return nil
	case 1:
		return branches[0]
	}
	return ladder.NewParallel(gen.Next(ids.PrefixNode), branches...)
}

// seriesOf returns nil, the single leaf, or a series block over items.
func seriesOf(items []rowItem, gen ids.Generator) ladder.Node {
	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0].node
	}
	nodes := make([]ladder.Node, len(items))
	for i, it := range items {
		nodes[i] = it.node
	}
	return ladder.NewSeries(gen.Next(ids.PrefixNode), nodes...)
}

// Reconstruction holds the intermediate stages of a reverse conversion.
type Reconstruction struct {
	Root    ladder.Node
	Rows    RowGroups
	Groups  []ParallelGroup
	Dropped []string // IDs of elements that did not convert to a node
}

// ReverseDetailed runs the reverse conversion and returns every stage.
// Root is nil for an empty network and normalized unless disabled with
// WithNormalize(false).
func ReverseDetailed(elements map[string]grid.Element, wires []grid.Wire, opts ...Option) Reconstruction {
	cfg := newConfig(opts)
	rows := GroupByRow(elements)
	groups := DetectParallelGroups(elements, wires, rows)

	var dropped []string
	for _, r := range rows.Rows() {
		for _, el := range rows[r] {
			if ElementToNode(el) == nil {
				dropped = append(dropped, el.ID)
			}
		}
	}

	root := BuildTree(rows, groups, cfg.ids)
	if cfg.normalize {
		root = transform.Normalize(root)
	}
	return Reconstruction{Root: root, Rows: rows, Groups: groups, Dropped: dropped}
}

// Reverse rebuilds a normalized tree from placed elements and wires. It
// returns nil for an empty network.
func Reverse(elements map[string]grid.Element, wires []grid.Wire, opts ...Option) ladder.Node {
	return ReverseDetailed(elements, wires, opts...).Root
}

// ReverseSnapshot is Reverse over an editor snapshot.
func ReverseSnapshot(s grid.Snapshot, opts ...Option) ladder.Node {
	return Reverse(s.ElementMap(), s.Wires, opts...)
}
