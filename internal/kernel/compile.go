package kernel

import (
	"fmt"

	"github.com/san-kum/hyperstellar/internal/equation"
)

// maxCodeLen bounds one channel's instruction count. Exceeding it is the
// CPU backend's resource-exhaustion failure.
const maxCodeLen = 4096

type opcode int

const (
	opConst opcode = iota
	opSelf
	opRef
	opTime
	opParam
	opNeg
	opAdd
	opSub
	opMul
	opDiv
	opPow
	opCall
	opDeriv
)

// instr is one VM instruction. Operand use depends on op: val for opConst;
// a holds a fieldID (opSelf, opRef), paramID (opParam), arity (opCall) or
// derivative target (opDeriv, -1 for time); idx holds the particle index
// (opRef) or derivative order (opDeriv).
type instr struct {
	op  opcode
	a   int
	idx int
	val float64
	fn  func(a, b, c float64) float64
	sub code
}

type code []instr

// compile lowers every present channel tree to bytecode. On failure the
// program transitions to Failed permanently; the particle is treated as
// unbound until a new equation is set.
func (p *Program) compile() error {
	for ch, tree := range p.ast.Trees {
		if tree == nil {
			continue
		}
		c, err := lower(tree, nil)
		if err != nil {
			return &CompileError{Channel: equation.Channel(ch).String(), Wrapped: err}
		}
		if len(c) > maxCodeLen {
			return &CompileError{Channel: equation.Channel(ch).String(), Wrapped: ErrProgramTooLarge}
		}
		p.code[ch] = c
	}
	return nil
}

// lower emits postorder bytecode for one expression tree.
func lower(n equation.Node, c code) (code, error) {
	switch t := n.(type) {
	case *equation.Literal:
		return append(c, instr{op: opConst, val: t.Value}), nil

	case *equation.Scalar:
		if t.Name == "t" {
			return append(c, instr{op: opTime}), nil
		}
		if f, ok := fieldByName[t.Name]; ok {
			return append(c, instr{op: opSelf, a: int(f)}), nil
		}
		if id, ok := paramByName[t.Name]; ok {
			return append(c, instr{op: opParam, a: int(id)}), nil
		}
		if v, ok := constByName[t.Name]; ok {
			return append(c, instr{op: opConst, val: v}), nil
		}
		return nil, fmt.Errorf("%w: unresolved symbol %q", ErrCompile, t.Name)

	case *equation.Ref:
		f, ok := fieldByName[t.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unresolved field %q", ErrCompile, t.Field)
		}
		return append(c, instr{op: opRef, a: int(f), idx: t.Index}), nil

	case *equation.Unary:
		c, err := lower(t.X, c)
		if err != nil {
			return nil, err
		}
		return append(c, instr{op: opNeg}), nil

	case *equation.Binary:
		c, err := lower(t.L, c)
		if err != nil {
			return nil, err
		}
		c, err = lower(t.R, c)
		if err != nil {
			return nil, err
		}
		var op opcode
		switch t.Op {
		case '+':
			op = opAdd
		case '-':
			op = opSub
		case '*':
			op = opMul
		case '/':
			op = opDiv
		case '^':
			op = opPow
		default:
			return nil, fmt.Errorf("%w: unknown operator %q", ErrCompile, t.Op)
		}
		return append(c, instr{op: op}), nil

	case *equation.Call:
		b, ok := builtins[t.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported function %q", ErrCompile, t.Name)
		}
		var err error
		for _, arg := range t.Args {
			c, err = lower(arg, c)
			if err != nil {
				return nil, err
			}
		}
		return append(c, instr{op: opCall, a: b.arity, fn: b.fn}), nil

	case *equation.Deriv:
		sub, err := lower(t.Expr, nil)
		if err != nil {
			return nil, err
		}
		target := -1 // time
		if t.WRT != "t" {
			f, ok := fieldByName[t.WRT]
			if !ok {
				return nil, fmt.Errorf("%w: unresolved derivative target %q", ErrCompile, t.WRT)
			}
			target = int(f)
		}
		return append(c, instr{op: opDeriv, a: target, idx: t.Order, sub: sub}), nil

	default:
		return nil, fmt.Errorf("%w: unknown node type %T", ErrCompile, n)
	}
}
