package convert

import (
	"github.com/matzehuels/laddergrid/pkg/grid"
	"github.com/matzehuels/laddergrid/pkg/ids"
	"github.com/matzehuels/laddergrid/pkg/ladder"
)

// Option configures a single conversion call.
type Option func(*config)

type config struct {
	ids       ids.Generator
	normalize bool
}

// WithIDGenerator sets the generator used for new element, wire and block
// identifiers. The default is a fresh ids.Sequential per call.
func WithIDGenerator(g ids.Generator) Option {
	return func(c *config) {
		if g != nil {
			c.ids = g
		}
	}
}

// WithNormalize controls whether Reverse normalizes the rebuilt tree.
// It is on by default and has no effect on forward conversion.
func WithNormalize(on bool) Option {
	return func(c *config) { c.normalize = on }
}

func newConfig(opts []Option) config {
	c := config{normalize: true}
	for _, opt := range opts {
		opt(&c)
	}
	if c.ids == nil {
		c.ids = ids.NewSequential()
	}
	return c
}

// builder accumulates the elements and wires of one forward conversion.
type builder struct {
	ids       ids.Generator
	elements  []grid.Element
	wires     []grid.Wire
	fallbacks []string
	maxRow    int
	maxCol    int
}

func newBuilder(opts []Option) *builder {
	cfg := newConfig(opts)
	return &builder{ids: cfg.ids, maxRow: -1, maxCol: -1}
}

// Convert lays out n with its top-left cell at (row, col).
func Convert(n ladder.Node, row, col int, opts ...Option) grid.ConversionResult {
	b := newBuilder(opts)
	b.place(n, row, col)
	return b.result()
}

// ConvertNetwork lays out the top-level nodes of a network as an implicit
// series starting at (0, 0). A node carrying a position hint is placed at
// the hinted cell, and the nodes after it continue from there.
func ConvertNetwork(nodes []ladder.Node, opts ...Option) grid.ConversionResult {
	b := newBuilder(opts)
	col := 0
	var prevExits []string
	for i, n := range nodes {
		r, c := 0, col
		if p := n.Hint(); p != nil {
			r, c = p.Row, p.Column
		}
		entries, exits := b.place(n, r, c)
		if i > 0 {
			b.join(prevExits, entries)
		}
		prevExits = exits
		_, w := Dimensions(n)
		col = c + w
	}
	return b.result()
}

// place lays out n at (row, col) and returns the identifiers of its entry
// and exit elements.
func (b *builder) place(n ladder.Node, row, col int) (entries, exits []string) {
	if n == nil {
		return nil, nil
	}
	blk, ok := n.(*ladder.Block)
	if !ok {
		id := b.addElement(n, grid.Position{Row: row, Column: col})
		return []string{id}, []string{id}
	}

	if blk.Kind == ladder.Parallel {
		r := row
		for _, c := range blk.Children {
			en, ex := b.place(c, r, col)
			entries = append(entries, en...)
			exits = append(exits, ex...)
			h, _ := Dimensions(c)
			r += h
		}
		return entries, exits
	}

	// Children that place nothing are skipped so their neighbours still join.
	c := col
	for _, child := range blk.Children {
		en, ex := b.place(child, row, c)
		if len(en) == 0 {
			continue
		}
		if entries == nil {
			entries = en
		} else {
			b.join(exits, en)
		}
		exits = ex
		_, w := Dimensions(child)
		c += w
	}
	return entries, exits
}

// join wires every element in from to every element in to.
func (b *builder) join(from, to []string) {
	for _, f := range from {
		for _, t := range to {
			b.wires = append(b.wires, grid.Wire{
				ID:   b.ids.Next(ids.PrefixWire),
				From: grid.Endpoint{ElementID: f, Port: grid.PortRight},
				To:   grid.Endpoint{ElementID: t, Port: grid.PortLeft},
				Kind: grid.Horizontal,
			})
		}
	}
}

func (b *builder) addElement(n ladder.Node, pos grid.Position) string {
	el, ok := NodeToElement(n, pos)
	el.ID = b.ids.Next(ids.PrefixElement)
	if !ok {
		b.fallbacks = append(b.fallbacks, n.NodeID())
	}
	b.elements = append(b.elements, el)
	b.maxRow = max(b.maxRow, pos.Row)
	b.maxCol = max(b.maxCol, pos.Column)
	return el.ID
}

func (b *builder) result() grid.ConversionResult {
	return grid.ConversionResult{
		Elements:  b.elements,
		Wires:     b.wires,
		RowCount:  b.maxRow + 1,
		MaxColumn: b.maxCol,
		Fallbacks: b.fallbacks,
	}
}
