package equation

// Node is one node of a parsed expression tree. The concrete types form a
// closed set: Literal, Scalar, Ref, Unary, Binary, Call and Deriv.
type Node interface {
	node()
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
}

// Scalar is a named scalar read from the evaluating particle or the
// global environment (x, vy, theta, t, pi, damping, ...). Resolution
// happens at bind time; the parser accepts any identifier.
type Scalar struct {
	Name   string
	Offset int
}

// Ref is a cross-particle field access p[Index].Field.
type Ref struct {
	Index  int
	Field  string
	Offset int
}

// Unary is a prefix operator application. The only unary operator is
// negation.
type Unary struct {
	Op rune
	X  Node
}

// Binary is an infix operator application. Op is one of + - * / ^.
type Binary struct {
	Op   rune
	L, R Node
}

// Call is a fixed-arity function application. The binder validates the
// name and arity against the backend's function table.
type Call struct {
	Name   string
	Args   []Node
	Offset int
}

// Deriv is a numerical derivative D(expr, wrt, order) evaluated by
// central differences at run time.
type Deriv struct {
	Expr   Node
	WRT    string
	Order  int
	Offset int
}

func (*Literal) node() {}
func (*Scalar) node()  {}
func (*Ref) node()     {}
func (*Unary) node()   {}
func (*Binary) node()  {}
func (*Call) node()    {}
func (*Deriv) node()   {}

// Channel identifies one scalar output slot of a program.
type Channel int

const (
	ChanAX Channel = iota // acceleration x
	ChanAY                // acceleration y
	ChanTorque
	ChanR
	ChanG
	ChanB
	ChanA

	NumChannels
)

func (c Channel) String() string {
	switch c {
	case ChanAX:
		return "ax"
	case ChanAY:
		return "ay"
	case ChanTorque:
		return "torque"
	case ChanR:
		return "r"
	case ChanG:
		return "g"
	case ChanB:
		return "b"
	case ChanA:
		return "a"
	default:
		return "invalid"
	}
}

// Channels is the parsed form of one equation source: one expression tree
// per present output channel. Absent channels are nil and mean "leave
// unchanged".
type Channels struct {
	Source string
	Trees  [NumChannels]Node
}

// HasTorque reports whether the torque channel is present.
func (c *Channels) HasTorque() bool { return c.Trees[ChanTorque] != nil }

// HasColor reports whether the color channels are present. The parser
// enforces all-or-nothing, so checking one suffices.
func (c *Channels) HasColor() bool { return c.Trees[ChanR] != nil }
