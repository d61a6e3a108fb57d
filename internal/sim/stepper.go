package sim

import (
	"sync"

	"github.com/san-kum/hyperstellar/internal/kernel"
	"github.com/san-kum/hyperstellar/internal/world"
)

// parallelThreshold is the particle count below which a frame is stepped
// serially; goroutine fan-out does not pay for itself under it.
const parallelThreshold = 32

// Update advances every particle by one frame: snapshot the committed
// state, evaluate all Ready kernels against it, integrate, apply
// constraints, commit. The whole frame holds the write lock, so
// host-bridge calls never observe a half-stepped store.
func (s *Simulation) Update(dt float64) error {
	if dt <= 0 {
		return ErrBadTimestep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, next := s.store.BeginFrame(s.time)

	n := len(next)
	if n < parallelThreshold || s.workers < 2 {
		s.stepRange(snap, next, dt, 0, n)
	} else {
		var wg sync.WaitGroup
		chunk := (n + s.workers - 1) / s.workers
		for w := 0; w < s.workers; w++ {
			start := w * chunk
			end := start + chunk
			if start >= n {
				break
			}
			if end > n {
				end = n
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				s.stepRange(snap, next, dt, lo, hi)
			}(start, end)
		}
		wg.Wait()
	}

	s.applyConstraints(next, dt)
	s.store.Commit()
	s.time += dt
	return nil
}

// stepRange evaluates and integrates particles [lo, hi). Each particle
// reads only the frame-start snapshot, so ranges are independent and the
// workers share no mutable state.
func (s *Simulation) stepRange(snap *world.Snapshot, next []world.ParticleRecord, dt float64, lo, hi int) {
	env := kernel.Env{Snap: snap, T: snap.Time, Params: &s.params}
	var out kernel.Outputs

	for i := lo; i < hi; i++ {
		out = kernel.Outputs{}
		driven := false
		if b := s.bindings[i]; b != nil && b.prog.Status() == kernel.StatusReady {
			env.Self = &snap.Records[i]
			b.prog.Eval(&env, &out)
			driven = true
		}
		integrate(&next[i], &out, &s.params, dt, driven)
	}
}

// integrate advances one record by semi-implicit Euler: velocity first
// from the evaluated acceleration, then position from the new velocity.
// The ordering matters for energy behavior in orbital and spring
// scenarios and must not be swapped for explicit Euler.
//
// Particles without a Ready kernel (unbound, Pending, Compiling, Failed)
// contribute zero force: they coast on their existing velocity with no
// damping and no color write, matching the original compute shader which
// dispatched over every record each frame.
func integrate(p *world.ParticleRecord, out *kernel.Outputs, params *world.Params, dt float64, driven bool) {
	if driven {
		p.VX += out.AX * dt
		p.VY += out.AY * dt
		if params.Damping != 0 {
			p.VX -= params.Damping * p.VX * dt
			p.VY -= params.Damping * p.VY * dt
		}
		if out.HasTorque {
			p.Omega += out.Torque * dt
			if params.Damping != 0 {
				p.Omega -= params.Damping * p.Omega * dt
			}
		}
		// Color channels are instantaneous outputs, not integrated state.
		if out.HasColor {
			p.R = out.R
			p.G = out.G
			p.B = out.B
			p.A = out.A
		}
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Theta += p.Omega * dt
}
