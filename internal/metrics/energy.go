// Package metrics provides conserved-quantity observers over committed
// particle state, used by tests and the CLI to judge integration quality.
package metrics

import (
	"math"

	"github.com/san-kum/hyperstellar/internal/world"
)

// Metric observes particle snapshots over a run and reduces them to one
// number.
type Metric interface {
	Name() string
	Observe(recs []world.ParticleRecord, t float64)
	Value() float64
	Reset()
}

// TotalEnergy samples kinetic plus pairwise gravitational potential
// energy, E = sum 1/2 m v^2 - sum_{i<j} G m_i m_j / r_ij, for a system
// whose equations encode Newtonian gravity with constant G.
type TotalEnergy struct {
	g    float64
	last float64
}

func NewTotalEnergy(g float64) *TotalEnergy {
	return &TotalEnergy{g: g}
}

func (e *TotalEnergy) Name() string { return "total_energy" }

func (e *TotalEnergy) Observe(recs []world.ParticleRecord, t float64) {
	e.last = SystemEnergy(recs, e.g)
}

func (e *TotalEnergy) Value() float64 { return e.last }
func (e *TotalEnergy) Reset()         { e.last = 0 }

// SystemEnergy computes the instantaneous total mechanical energy of a
// gravitational N-body configuration.
func SystemEnergy(recs []world.ParticleRecord, g float64) float64 {
	total := 0.0
	for i := range recs {
		p := &recs[i]
		total += 0.5 * p.Mass * (p.VX*p.VX + p.VY*p.VY)
	}
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			dx := recs[j].X - recs[i].X
			dy := recs[j].Y - recs[i].Y
			r := math.Sqrt(dx*dx + dy*dy)
			if r > 0 {
				total -= g * recs[i].Mass * recs[j].Mass / r
			}
		}
	}
	return total
}

// SystemAngularMomentum computes L = sum m (x vy - y vx) about the
// origin.
func SystemAngularMomentum(recs []world.ParticleRecord) float64 {
	total := 0.0
	for i := range recs {
		p := &recs[i]
		total += p.Mass * (p.X*p.VY - p.Y*p.VX)
	}
	return total
}

// Drift tracks the maximum relative deviation of a conserved quantity
// from its first observed value.
type Drift struct {
	name     string
	quantity func(recs []world.ParticleRecord) float64

	initial  float64
	maxDrift float64
	samples  int
}

// NewEnergyDrift tracks total-energy drift for gravitational constant g.
func NewEnergyDrift(g float64) *Drift {
	return &Drift{
		name: "energy_drift",
		quantity: func(recs []world.ParticleRecord) float64 {
			return SystemEnergy(recs, g)
		},
	}
}

// NewAngularMomentumDrift tracks angular-momentum drift about the origin.
func NewAngularMomentumDrift() *Drift {
	return &Drift{
		name:     "angular_momentum_drift",
		quantity: SystemAngularMomentum,
	}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(recs []world.ParticleRecord, t float64) {
	q := d.quantity(recs)
	if d.samples == 0 {
		d.initial = q
	}
	d.samples++
	if d.initial != 0 {
		drift := math.Abs(q-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
