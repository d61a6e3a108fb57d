package kernel

import (
	"github.com/san-kum/hyperstellar/internal/equation"
	"github.com/san-kum/hyperstellar/internal/world"
)

// Status is the compile lifecycle of a program.
type Status int

const (
	StatusPending Status = iota
	StatusCompiling
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompiling:
		return "compiling"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Program is a bound equation: validated trees per channel, the set of
// particle indices the equation references, and (once compiled) one
// bytecode kernel per channel.
type Program struct {
	Source string

	ast    *equation.Channels
	refs   []int
	status Status
	err    error
	code   [equation.NumChannels]code
}

// Refs returns the referenced-index set, sorted ascending. The caller
// must not mutate it.
func (p *Program) Refs() []int { return p.refs }

// Status reports the compile lifecycle state.
func (p *Program) Status() Status { return p.status }

// Err returns the compile failure, nil unless Status is StatusFailed.
func (p *Program) Err() error { return p.err }

// Fail marks the program permanently failed. The simulation uses this
// when a removal breaks one of the program's references.
func (p *Program) Fail(err error) {
	p.status = StatusFailed
	p.err = err
	for i := range p.code {
		p.code[i] = nil
	}
}

// HasTorque reports whether the torque channel is present.
func (p *Program) HasTorque() bool { return p.ast.HasTorque() }

// HasColor reports whether the color channels are present.
func (p *Program) HasColor() bool { return p.ast.HasColor() }

// Env is the read-only input to one kernel evaluation: the frame-start
// snapshot, the evaluating particle's record within it, the simulation
// clock and the global parameters.
type Env struct {
	Snap   *world.Snapshot
	Self   *world.ParticleRecord
	T      float64
	Params *world.Params
}

// Outputs holds one evaluation's channel values. Absent channels keep
// their zero value and are flagged off.
type Outputs struct {
	AX, AY     float64
	Torque     float64
	R, G, B, A float64

	HasTorque bool
	HasColor  bool
}

// Eval runs every compiled channel against env. It must only be called
// when Status is StatusReady.
func (p *Program) Eval(env *Env, out *Outputs) {
	st := stackPool.Get().(*evalStack)
	out.AX = runCode(p.code[equation.ChanAX], env, st)
	out.AY = runCode(p.code[equation.ChanAY], env, st)
	out.HasTorque = p.code[equation.ChanTorque] != nil
	if out.HasTorque {
		out.Torque = runCode(p.code[equation.ChanTorque], env, st)
	}
	out.HasColor = p.code[equation.ChanR] != nil
	if out.HasColor {
		out.R = runCode(p.code[equation.ChanR], env, st)
		out.G = runCode(p.code[equation.ChanG], env, st)
		out.B = runCode(p.code[equation.ChanB], env, st)
		out.A = runCode(p.code[equation.ChanA], env, st)
	}
	stackPool.Put(st)
}

// RebindRefs renumbers every cross-particle reference through remap
// (old index -> new index). Both the trees and any compiled bytecode are
// rewritten in place, so Pending programs compile against the new
// numbering and Ready programs need no recompile.
func (p *Program) RebindRefs(remap func(int) int) {
	for i := range p.refs {
		p.refs[i] = remap(p.refs[i])
	}
	for _, tree := range p.ast.Trees {
		equation.Walk(tree, func(n equation.Node) {
			if ref, ok := n.(*equation.Ref); ok {
				ref.Index = remap(ref.Index)
			}
		})
	}
	for _, c := range p.code {
		rebindCode(c, remap)
	}
}

func rebindCode(c code, remap func(int) int) {
	for i := range c {
		switch c[i].op {
		case opRef:
			c[i].idx = remap(c[i].idx)
		case opDeriv:
			rebindCode(c[i].sub, remap)
		}
	}
}
