package kernel

import (
	"math"

	"github.com/san-kum/hyperstellar/internal/world"
)

// fieldID indexes the per-particle scalars readable from equations, both
// on the evaluating particle (bare name) and through p[i].<field>.
type fieldID int

const (
	fieldX fieldID = iota
	fieldY
	fieldVX
	fieldVY
	fieldTheta
	fieldOmega
	fieldMass
	fieldCharge
	fieldR
	fieldG
	fieldB
	fieldA
)

var fieldByName = map[string]fieldID{
	"x": fieldX, "y": fieldY,
	"vx": fieldVX, "vy": fieldVY,
	"theta": fieldTheta, "omega": fieldOmega,
	"mass": fieldMass, "charge": fieldCharge,
	"r": fieldR, "g": fieldG, "b": fieldB, "a": fieldA,
}

// differentiable marks the fields D() may perturb. Structural scalars
// (mass, charge, color) are constant within a frame.
var differentiable = map[fieldID]bool{
	fieldX: true, fieldY: true,
	fieldVX: true, fieldVY: true,
	fieldTheta: true, fieldOmega: true,
}

func readField(p *world.ParticleRecord, f fieldID) float64 {
	switch f {
	case fieldX:
		return p.X
	case fieldY:
		return p.Y
	case fieldVX:
		return p.VX
	case fieldVY:
		return p.VY
	case fieldTheta:
		return p.Theta
	case fieldOmega:
		return p.Omega
	case fieldMass:
		return p.Mass
	case fieldCharge:
		return p.Charge
	case fieldR:
		return p.R
	case fieldG:
		return p.G
	case fieldB:
		return p.B
	case fieldA:
		return p.A
	default:
		return math.NaN()
	}
}

func addToField(p *world.ParticleRecord, f fieldID, d float64) {
	switch f {
	case fieldX:
		p.X += d
	case fieldY:
		p.Y += d
	case fieldVX:
		p.VX += d
	case fieldVY:
		p.VY += d
	case fieldTheta:
		p.Theta += d
	case fieldOmega:
		p.Omega += d
	}
}

// paramID indexes the global parameters readable from equations.
type paramID int

const (
	paramGravity paramID = iota
	paramDamping
	paramStiffness
)

var paramByName = map[string]paramID{
	"gravity": paramGravity, "g": paramGravity,
	"damping": paramDamping, "b": paramDamping,
	"stiffness": paramStiffness, "k": paramStiffness,
}

func readParam(p *world.Params, id paramID) float64 {
	switch id {
	case paramGravity:
		return p.Gravity
	case paramDamping:
		return p.Damping
	case paramStiffness:
		return p.Stiffness
	default:
		return math.NaN()
	}
}

var constByName = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}
