package ladder

// Position is an optional grid placement hint carried by a node.
type Position struct {
	Row    int
	Column int
}

// Node is a vertex of the logic tree. The set of implementations is closed:
// *Contact, *Coil, *Timer, *Counter, *Comparison, *Math, *Move and *Block.
type Node interface {
	// NodeID returns the node's identifier.
	NodeID() string
	// Hint returns the position hint, or nil if the node carries none.
	Hint() *Position
	// Note returns the node's comment.
	Note() string

	node()
}

// Common holds the fields shared by every node.
type Common struct {
	ID       string
	Position *Position
	Comment  string
}

func (c Common) NodeID() string  { return c.ID }
func (c Common) Hint() *Position { return c.Position }
func (c Common) Note() string    { return c.Comment }
func (Common) node()             {}

// Polarity selects how a contact samples its device.
type Polarity string

const (
	NormallyOpen   Polarity = "no"
	NormallyClosed Polarity = "nc"
	RisingEdge     Polarity = "rising"
	FallingEdge    Polarity = "falling"
)

// Valid reports whether p is one of the known polarities.
func (p Polarity) Valid() bool {
	switch p {
	case NormallyOpen, NormallyClosed, RisingEdge, FallingEdge:
		return true
	}
	return false
}

// CoilKind selects how a coil drives its device.
type CoilKind string

const (
	CoilOutput CoilKind = "out"
	CoilSet    CoilKind = "set"
	CoilReset  CoilKind = "reset"
)

// Valid reports whether k is one of the known coil kinds.
func (k CoilKind) Valid() bool {
	switch k {
	case CoilOutput, CoilSet, CoilReset:
		return true
	}
	return false
}

// TimeBase is the tick resolution of a timer preset.
type TimeBase string

const (
	TimeBase1ms   TimeBase = "1ms"
	TimeBase10ms  TimeBase = "10ms"
	TimeBase100ms TimeBase = "100ms"
	TimeBase1s    TimeBase = "1s"
)

// Valid reports whether b is one of the supported time bases.
func (b TimeBase) Valid() bool {
	switch b {
	case TimeBase1ms, TimeBase10ms, TimeBase100ms, TimeBase1s:
		return true
	}
	return false
}

// CountDirection selects whether a counter counts up or down.
type CountDirection string

const (
	CountUp   CountDirection = "up"
	CountDown CountDirection = "down"
)

// Valid reports whether d is a known direction.
func (d CountDirection) Valid() bool { return d == CountUp || d == CountDown }

// Operator is a comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpNotEqual     Operator = "<>"
)

// Operators lists every comparison operator in display order.
var Operators = []Operator{OpEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpNotEqual}

// Valid reports whether op is one of the six comparison operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpNotEqual:
		return true
	}
	return false
}

// BlockKind is the composition kind of a Block.
type BlockKind string

const (
	Series   BlockKind = "series"
	Parallel BlockKind = "parallel"
)

// Contact reads a bit device.
type Contact struct {
	Common
	Address  Address
	Polarity Polarity
}

// Coil writes a bit device.
type Coil struct {
	Common
	Address Address
	Kind    CoilKind
}

// Timer is an on-delay timer with a preset in TimeBase ticks.
type Timer struct {
	Common
	Address  Address
	Preset   int
	TimeBase TimeBase
}

// Counter counts rising edges of its input up to Preset.
type Counter struct {
	Common
	Address   Address
	Preset    int
	Direction CountDirection
}

// Comparison compares two operands.
type Comparison struct {
	Common
	Operator Operator
	Left     Operand
	Right    Operand
}

// Math is an arithmetic instruction. It has no grid counterpart.
type Math struct {
	Common
	Operation string
	Operands  []Operand
	Dest      Address
}

// Move copies Source into Dest. It has no grid counterpart.
type Move struct {
	Common
	Source Operand
	Dest   Address
}

// Block composes its children in series or in parallel.
type Block struct {
	Common
	Kind     BlockKind
	Children []Node
}

// NewSeries returns a series block owning children.
func NewSeries(id string, children ...Node) *Block {
	return &Block{Common: Common{ID: id}, Kind: Series, Children: children}
}

// NewParallel returns a parallel block owning children.
func NewParallel(id string, children ...Node) *Block {
	return &Block{Common: Common{ID: id}, Kind: Parallel, Children: children}
}

// IsLeaf reports whether n is an instruction rather than a Block.
func IsLeaf(n Node) bool {
	_, ok := n.(*Block)
	return !ok
}

// Opcode is the instruction-oriented type vocabulary of the tree.
type Opcode string

const (
	OpLoad      Opcode = "LOAD"
	OpLoadNot   Opcode = "LOAD_NOT"
	OpLoadP     Opcode = "LOAD_P"
	OpLoadF     Opcode = "LOAD_F"
	OpOut       Opcode = "OUT"
	OpSet       Opcode = "SET"
	OpReset     Opcode = "RST"
	OpTimer     Opcode = "TMR"
	OpCounter   Opcode = "CNT"
	OpCompare   Opcode = "CMP"
	OpMath      Opcode = "MATH"
	OpMove      Opcode = "MOV"
	OpAndBlock  Opcode = "AND_BLOCK"
	OpOrBlock   Opcode = "OR_BLOCK"
	OpUndefined Opcode = ""
)

// OpcodeOf returns the instruction opcode of n.
func OpcodeOf(n Node) Opcode {
	switch n := n.(type) {
	case *Contact:
		switch n.Polarity {
		case NormallyClosed:
			return OpLoadNot
		case RisingEdge:
			return OpLoadP
		case FallingEdge:
			return OpLoadF
		default:
			return OpLoad
		}
	case *Coil:
		switch n.Kind {
		case CoilSet:
			return OpSet
		case CoilReset:
			return OpReset
		default:
			return OpOut
		}
	case *Timer:
		return OpTimer
	case *Counter:
		return OpCounter
	case *Comparison:
		return OpCompare
	case *Math:
		return OpMath
	case *Move:
		return OpMove
	case *Block:
		if n.Kind == Parallel {
			return OpOrBlock
		}
		return OpAndBlock
	}
	return OpUndefined
}
