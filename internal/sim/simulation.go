// Package sim is the engine facade: it owns the particle store, the
// kernel compile pipeline and the per-frame stepper, and exposes the
// host-bridge entry points client code drives the engine through.
package sim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/hyperstellar/internal/equation"
	"github.com/san-kum/hyperstellar/internal/kernel"
	"github.com/san-kum/hyperstellar/internal/store"
	"github.com/san-kum/hyperstellar/internal/world"
)

// binding ties a particle slot to its bound program. Slots without an
// equation hold nil.
type binding struct {
	prog   *kernel.Program
	handle kernel.Handle
}

// Simulation is one engine instance. Update and host writes are mutually
// exclusive; host reads run concurrently with each other.
type Simulation struct {
	mu sync.RWMutex

	store       *store.Store
	loader      *kernel.Loader
	bindings    []*binding
	constraints [][]constraint
	params      world.Params
	time        float64
	workers     int
}

func New() *Simulation {
	return &Simulation{
		store:   store.New(0),
		loader:  kernel.NewLoader(),
		params:  world.DefaultParams(),
		workers: runtime.NumCPU(),
	}
}

// AddObject appends a particle and returns its stable index. The particle
// has no equation bound; it moves ballistically under its own velocity.
func (s *Simulation) AddObject(spec world.ObjectSpec) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Add(spec)
	if err != nil {
		return 0, err
	}
	s.bindings = append(s.bindings, nil)
	s.constraints = append(s.constraints, nil)
	return idx, nil
}

// SetEquation parses, binds and submits an equation for the particle at
// index. Parse and bind failures surface synchronously; compile failures
// surface later through the program's Failed status. Rebinding replaces
// the previous program and discards its kernel.
func (s *Simulation) SetEquation(index int, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.store.Count() {
		return &world.NotFoundError{Index: index, Count: s.store.Count()}
	}

	ast, err := equation.Parse(source)
	if err != nil {
		return err
	}
	prog, err := kernel.Bind(ast, s.store.Count())
	if err != nil {
		return err
	}

	if old := s.bindings[index]; old != nil {
		s.loader.Cancel(old.handle)
	}
	s.bindings[index] = &binding{prog: prog, handle: s.loader.Submit(prog)}
	return nil
}

// RemoveObject deletes the particle at index, compacting the store.
// An in-flight compilation for the removed particle is discarded. Every
// surviving program that referenced the removed index fails with
// ErrBrokenReference; references to higher indices are renumbered in
// place. Constraints on the removed particle vanish with it, and other
// particles' distance constraints targeting it are silently dropped.
func (s *Simulation) RemoveObject(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(index); err != nil {
		return err
	}

	if b := s.bindings[index]; b != nil {
		s.loader.Cancel(b.handle)
	}
	s.bindings = append(s.bindings[:index], s.bindings[index+1:]...)
	s.compactConstraints(index)

	remap := func(j int) int {
		if j > index {
			return j - 1
		}
		return j
	}
	for i, b := range s.bindings {
		if b == nil {
			continue
		}
		broken := false
		for _, ref := range b.prog.Refs() {
			if ref == index {
				broken = true
				break
			}
		}
		if broken {
			s.loader.Cancel(b.handle)
			b.prog.Fail(fmt.Errorf("%w: p[%d] referenced by object %d", ErrBrokenReference, index, i))
			continue
		}
		b.prog.RebindRefs(remap)
	}
	return nil
}

// ObjectCount returns the number of live particles.
func (s *Simulation) ObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Count()
}

// GetObject returns a copy of the current committed record at index.
func (s *Simulation) GetObject(index int) (world.ParticleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Get(index)
}

// BatchGet returns copies of the requested records in request order.
func (s *Simulation) BatchGet(indices []int) ([]world.ParticleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.BatchGet(indices)
}

// UpdateObject overwrites the masked fields of one record, bypassing
// kernel evaluation. The new values feed the next Update.
func (s *Simulation) UpdateObject(u world.BatchUpdate) error {
	return s.BatchUpdate([]world.BatchUpdate{u})
}

// BatchUpdate applies sparse overwrites all-or-nothing: if any record
// names a bad index, none are applied.
func (s *Simulation) BatchUpdate(updates []world.BatchUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.BatchUpdate(updates)
}

// DriveCompiles advances the asynchronous compile queue by at most budget
// work units and returns the number done. Callers needing synchronous
// readiness poll this until AllKernelsReady reports true. It takes the
// write lock: compiling flips program statuses and installs kernels that
// Update and EquationStatus read.
func (s *Simulation) DriveCompiles(budget int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Drive(budget)
}

// AllKernelsReady reports whether no program is Pending or Compiling.
func (s *Simulation) AllKernelsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loader.AllReady()
}

// EquationStatus reports the compile status of the equation bound at
// index; ok is false when no equation is bound.
func (s *Simulation) EquationStatus(index int) (kernel.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.bindings) || s.bindings[index] == nil {
		return 0, false
	}
	return s.bindings[index].prog.Status(), true
}

// SetParameter assigns a process-wide tunable by name (gravity/g,
// damping/b, stiffness/k).
func (s *Simulation) SetParameter(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Set(name, value)
}

// GetParameter reads a process-wide tunable by name.
func (s *Simulation) GetParameter(name string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params.Get(name)
}

// Time returns the accumulated simulation clock.
func (s *Simulation) Time() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

// Frame returns the number of committed frames.
func (s *Simulation) Frame() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Frame()
}

// Records returns a copy of the committed state of every particle.
func (s *Simulation) Records() []world.ParticleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view := s.store.View()
	out := make([]world.ParticleRecord, len(view))
	copy(out, view)
	return out
}
