package kernel

import (
	"math"
	"sync"
)

// evalStack is the scratch operand stack for one evaluation. Pooled so the
// parallel evaluate path allocates nothing per particle.
type evalStack struct {
	s []float64
}

var stackPool = sync.Pool{
	New: func() any {
		return &evalStack{s: make([]float64, 0, 64)}
	},
}

// derivStep is the central-difference spacing used by opDeriv.
const derivStep = 1e-4

// runCode executes one channel's bytecode against env. The arithmetic is
// plain IEEE float64: division by zero, log of a non-positive value and
// friends produce NaN/Inf that flow through to the caller unclamped.
func runCode(c code, env *Env, st *evalStack) float64 {
	s := st.s[:0]

	for i := range c {
		in := &c[i]
		switch in.op {
		case opConst:
			s = append(s, in.val)
		case opSelf:
			s = append(s, readField(env.Self, fieldID(in.a)))
		case opRef:
			if in.idx < 0 || in.idx >= len(env.Snap.Records) {
				s = append(s, math.NaN())
			} else {
				s = append(s, readField(&env.Snap.Records[in.idx], fieldID(in.a)))
			}
		case opTime:
			s = append(s, env.T)
		case opParam:
			s = append(s, readParam(env.Params, paramID(in.a)))
		case opNeg:
			s[len(s)-1] = -s[len(s)-1]
		case opAdd:
			s[len(s)-2] += s[len(s)-1]
			s = s[:len(s)-1]
		case opSub:
			s[len(s)-2] -= s[len(s)-1]
			s = s[:len(s)-1]
		case opMul:
			s[len(s)-2] *= s[len(s)-1]
			s = s[:len(s)-1]
		case opDiv:
			s[len(s)-2] /= s[len(s)-1]
			s = s[:len(s)-1]
		case opPow:
			s[len(s)-2] = math.Pow(s[len(s)-2], s[len(s)-1])
			s = s[:len(s)-1]
		case opCall:
			switch in.a {
			case 1:
				s[len(s)-1] = in.fn(s[len(s)-1], 0, 0)
			case 2:
				s[len(s)-2] = in.fn(s[len(s)-2], s[len(s)-1], 0)
				s = s[:len(s)-1]
			case 3:
				s[len(s)-3] = in.fn(s[len(s)-3], s[len(s)-2], s[len(s)-1])
				s = s[:len(s)-2]
			}
		case opDeriv:
			s = append(s, evalDeriv(in, env))
		}
	}

	st.s = s[:0]
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// evalDeriv computes a central-difference derivative of the instruction's
// sub-expression with respect to a self field or the clock.
func evalDeriv(in *instr, env *Env) float64 {
	at := func(d float64) float64 {
		e := *env
		if in.a < 0 {
			e.T += d
		} else {
			rec := *env.Self
			addToField(&rec, fieldID(in.a), d)
			e.Self = &rec
		}
		st := stackPool.Get().(*evalStack)
		v := runCode(in.sub, &e, st)
		stackPool.Put(st)
		return v
	}

	h := derivStep
	switch in.idx {
	case 1:
		return (at(h) - at(-h)) / (2 * h)
	case 2:
		return (at(h) - 2*at(0) + at(-h)) / (h * h)
	case 3:
		return (at(2*h) - 2*at(h) + 2*at(-h) - at(-2*h)) / (2 * h * h * h)
	case 4:
		return (at(2*h) - 4*at(h) + 6*at(0) - 4*at(-h) + at(-2*h)) / (h * h * h * h)
	default:
		return math.NaN()
	}
}
