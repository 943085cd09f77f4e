package ladder

// Network is one rung section of a program: a list of top-level nodes
// evaluated as an implicit series.
type Network struct {
	Step    int
	Comment string
	Nodes   []Node
}

// Program is an ordered list of networks.
type Program struct {
	Name     string
	Networks []Network
}

// Root returns the network's nodes as a single tree: the only node when
// there is one, otherwise a series block over all of them. It returns nil
// for an empty network.
func (n Network) Root() Node {
	switch len(n.Nodes) {
	case 0:
		return nil
	case 1:
		return n.Nodes[0]
	}
	return NewSeries("", n.Nodes...)
}
