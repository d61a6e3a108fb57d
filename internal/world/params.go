package world

import "fmt"

// Params holds the process-wide tunables consumed by integration and
// exposed to equations as read-only scalars. The zero damping default keeps
// conservative scenarios (orbits, springs) energy-preserving out of the box.
type Params struct {
	Gravity   float64
	Damping   float64
	Stiffness float64
}

func DefaultParams() Params {
	return Params{
		Gravity:   9.81,
		Damping:   0.0,
		Stiffness: 1.0,
	}
}

// Set assigns a parameter by name. Short aliases match the uniform names
// the original clients used (g, b, k).
func (p *Params) Set(name string, value float64) error {
	switch name {
	case "gravity", "g":
		p.Gravity = value
	case "damping", "b":
		p.Damping = value
	case "stiffness", "k":
		p.Stiffness = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return nil
}

// Get returns a parameter by name.
func (p *Params) Get(name string) (float64, error) {
	switch name {
	case "gravity", "g":
		return p.Gravity, nil
	case "damping", "b":
		return p.Damping, nil
	case "stiffness", "k":
		return p.Stiffness, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
}
