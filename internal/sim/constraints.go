package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/hyperstellar/internal/world"
)

// DistanceConstraint pins a particle at a fixed distance from another.
// Stiffness scales how much of the length error is corrected per second;
// at Stiffness*dt >= 1 the constraint is rigid. The constrained particle
// moves, the target does not.
type DistanceConstraint struct {
	Target     int
	RestLength float64
	Stiffness  float64
}

// DefaultDistanceConstraint returns a rigid-by-default link to object 0.
func DefaultDistanceConstraint() DistanceConstraint {
	return DistanceConstraint{Target: 0, RestLength: 5.0, Stiffness: 100.0}
}

// BoundaryConstraint confines a particle to an axis-aligned box. On
// contact the position is clamped and the outward velocity component is
// zeroed.
type BoundaryConstraint struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// DefaultBoundaryConstraint returns the standard ±10 box.
func DefaultBoundaryConstraint() BoundaryConstraint {
	return BoundaryConstraint{MinX: -10, MaxX: 10, MinY: -10, MaxY: 10}
}

const (
	constraintDistance = iota
	constraintBoundary
)

// constraint is the stored union of both kinds. kind selects which
// fields are live.
type constraint struct {
	kind     int
	distance DistanceConstraint
	boundary BoundaryConstraint
}

// AddDistanceConstraint attaches a distance constraint to the particle
// at index. The target must be a different live particle and the rest
// length must be positive.
func (s *Simulation) AddDistanceConstraint(index int, c DistanceConstraint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.store.Count()
	if index < 0 || index >= n {
		return &world.NotFoundError{Index: index, Count: n}
	}
	if c.Target < 0 || c.Target >= n {
		return fmt.Errorf("%w: target p[%d] out of range [0, %d)", ErrBadConstraint, c.Target, n)
	}
	if c.Target == index {
		return fmt.Errorf("%w: object %d cannot constrain to itself", ErrBadConstraint, index)
	}
	if c.RestLength <= 0 {
		return fmt.Errorf("%w: rest length %g must be positive", ErrBadConstraint, c.RestLength)
	}
	s.constraints[index] = append(s.constraints[index], constraint{kind: constraintDistance, distance: c})
	return nil
}

// AddBoundaryConstraint attaches a bounding box to the particle at index.
func (s *Simulation) AddBoundaryConstraint(index int, c BoundaryConstraint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.store.Count() {
		return &world.NotFoundError{Index: index, Count: s.store.Count()}
	}
	if c.MinX >= c.MaxX || c.MinY >= c.MaxY {
		return fmt.Errorf("%w: degenerate box [%g, %g]x[%g, %g]", ErrBadConstraint, c.MinX, c.MaxX, c.MinY, c.MaxY)
	}
	s.constraints[index] = append(s.constraints[index], constraint{kind: constraintBoundary, boundary: c})
	return nil
}

// ClearConstraints drops every constraint attached to the particle at
// index.
func (s *Simulation) ClearConstraints(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.store.Count() {
		return &world.NotFoundError{Index: index, Count: s.store.Count()}
	}
	s.constraints[index] = nil
	return nil
}

// ClearAllConstraints drops every constraint on every particle.
func (s *Simulation) ClearAllConstraints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.constraints {
		s.constraints[i] = nil
	}
}

// ConstraintCount returns how many constraints are attached at index.
func (s *Simulation) ConstraintCount(index int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= s.store.Count() {
		return 0, &world.NotFoundError{Index: index, Count: s.store.Count()}
	}
	return len(s.constraints[index]), nil
}

// compactConstraints rewrites the constraint table after the particle at
// removed was deleted: the removed particle's own constraints go with
// it, distance constraints targeting it are dropped, and targets above
// it shift down one. Unlike equation references, a dangling constraint
// is not an error; the original engine silently detached them.
func (s *Simulation) compactConstraints(removed int) {
	s.constraints = append(s.constraints[:removed], s.constraints[removed+1:]...)
	for i, list := range s.constraints {
		kept := list[:0]
		for _, c := range list {
			if c.kind == constraintDistance {
				if c.distance.Target == removed {
					continue
				}
				if c.distance.Target > removed {
					c.distance.Target--
				}
			}
			kept = append(kept, c)
		}
		s.constraints[i] = kept
	}
}

// applyConstraints runs the post-integration constraint pass over next.
// It is sequential: each distance correction reads the target's already
// integrated position, so the result is deterministic regardless of how
// the integration phase was chunked.
func (s *Simulation) applyConstraints(next []world.ParticleRecord, dt float64) {
	for i, list := range s.constraints {
		for _, c := range list {
			switch c.kind {
			case constraintDistance:
				applyDistance(&next[i], &next[c.distance.Target], c.distance, dt)
			case constraintBoundary:
				applyBoundary(&next[i], c.boundary)
			}
		}
	}
}

// applyDistance moves p toward the rest length from q. The fraction of
// the error removed is Stiffness*dt, capped at full correction; the
// position delta is folded back into the velocity so constrained motion
// stays consistent with the integrator.
func applyDistance(p, q *world.ParticleRecord, c DistanceConstraint, dt float64) {
	dx := p.X - q.X
	dy := p.Y - q.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return
	}
	alpha := c.Stiffness * dt
	if alpha > 1 {
		alpha = 1
	}
	scale := -alpha * (d - c.RestLength) / d
	cx := scale * dx
	cy := scale * dy
	p.X += cx
	p.Y += cy
	p.VX += cx / dt
	p.VY += cy / dt
}

func applyBoundary(p *world.ParticleRecord, c BoundaryConstraint) {
	if p.X < c.MinX {
		p.X = c.MinX
		if p.VX < 0 {
			p.VX = 0
		}
	} else if p.X > c.MaxX {
		p.X = c.MaxX
		if p.VX > 0 {
			p.VX = 0
		}
	}
	if p.Y < c.MinY {
		p.Y = c.MinY
		if p.VY < 0 {
			p.VY = 0
		}
	} else if p.Y > c.MaxY {
		p.Y = c.MaxY
		if p.VY > 0 {
			p.VY = 0
		}
	}
}
