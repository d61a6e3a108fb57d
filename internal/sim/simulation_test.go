package sim

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/hyperstellar/internal/kernel"
	"github.com/san-kum/hyperstellar/internal/world"
)

func addAt(t *testing.T, s *Simulation, x, y, vx, vy float64) int {
	t.Helper()
	spec := world.DefaultObjectSpec()
	spec.X, spec.Y = x, y
	spec.VX, spec.VY = vx, vy
	idx, err := s.AddObject(spec)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	return idx
}

func bindEquation(t *testing.T, s *Simulation, idx int, source string) {
	t.Helper()
	if err := s.SetEquation(idx, source); err != nil {
		t.Fatalf("set equation %q: %v", source, err)
	}
}

func driveAll(s *Simulation) {
	for !s.AllKernelsReady() {
		s.DriveCompiles(8)
	}
}

func TestAddObjectIndices(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		if idx := addAt(t, s, 0, 0, 0, 0); idx != i {
			t.Errorf("expected index %d, got %d", i, idx)
		}
	}
	if s.ObjectCount() != 3 {
		t.Errorf("expected 3 objects, got %d", s.ObjectCount())
	}
}

func TestUpdateRejectsBadTimestep(t *testing.T) {
	s := New()
	for _, dt := range []float64{0, -0.01} {
		if err := s.Update(dt); !errors.Is(err, ErrBadTimestep) {
			t.Errorf("Update(%g): expected bad-timestep error, got %v", dt, err)
		}
	}
}

func TestUnboundParticleCoasts(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 1, -2)

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rec, err := s.GetObject(idx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec.X != 1 || rec.Y != -2 {
		t.Errorf("expected (1, -2), got (%g, %g)", rec.X, rec.Y)
	}
	if rec.VX != 1 || rec.VY != -2 {
		t.Errorf("velocity of an unbound particle must not change, got (%g, %g)", rec.VX, rec.VY)
	}
}

func TestSemiImplicitOrdering(t *testing.T) {
	// Velocity integrates before position: one step from rest under
	// constant acceleration already moves the particle. Explicit Euler
	// would leave it in place.
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "2, 0")
	driveAll(s)

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rec, _ := s.GetObject(idx)
	if rec.VX != 1 {
		t.Errorf("expected vx=1, got %g", rec.VX)
	}
	if rec.X != 0.5 {
		t.Errorf("expected x=0.5, got %g", rec.X)
	}
}

func TestFrozenDynamicsUntilReady(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 1, 0)
	bindEquation(t, s, idx, "0, -10")

	// No compile work driven: the kernel is still pending, so the
	// particle coasts with zero acceleration.
	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := s.GetObject(idx)
	if rec.VY != 0 {
		t.Errorf("pending kernel must contribute no acceleration, got vy=%g", rec.VY)
	}
	if rec.X != 0.5 {
		t.Errorf("position must keep advancing while pending, got x=%g", rec.X)
	}

	st, ok := s.EquationStatus(idx)
	if !ok || st == kernel.StatusReady {
		t.Fatalf("expected an unready bound status, got %v (ok=%v)", st, ok)
	}

	driveAll(s)
	if st, _ := s.EquationStatus(idx); st != kernel.StatusReady {
		t.Fatalf("expected ready after driving compiles, got %v", st)
	}

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ = s.GetObject(idx)
	if rec.VY != -5 {
		t.Errorf("expected vy=-5 once ready, got %g", rec.VY)
	}
}

func TestClockIsFrameStart(t *testing.T) {
	// Kernels read the clock as it stood when the frame began: the first
	// step after t=0 sees t=0.
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "t, 0")
	driveAll(s)

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := s.GetObject(idx)
	if rec.VX != 0 {
		t.Errorf("first frame sees t=0: expected vx=0, got %g", rec.VX)
	}

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ = s.GetObject(idx)
	if rec.VX != 0.25 {
		t.Errorf("second frame sees t=0.5: expected vx=0.25, got %g", rec.VX)
	}

	if s.Time() != 1.0 {
		t.Errorf("expected clock 1.0, got %g", s.Time())
	}
	if s.Frame() != 2 {
		t.Errorf("expected 2 frames, got %d", s.Frame())
	}
}

func TestDampingAppliesToDriven(t *testing.T) {
	s := New()
	driven := addAt(t, s, 0, 0, 1, 0)
	coasting := addAt(t, s, 0, 0, 1, 0)
	bindEquation(t, s, driven, "0, 0")
	driveAll(s)

	if err := s.SetParameter("damping", 0.5); err != nil {
		t.Fatalf("set parameter: %v", err)
	}
	if err := s.Update(0.1); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rec, _ := s.GetObject(driven)
	if math.Abs(rec.VX-0.95) > 1e-12 {
		t.Errorf("expected damped vx=0.95, got %g", rec.VX)
	}

	rec, _ = s.GetObject(coasting)
	if rec.VX != 1 {
		t.Errorf("damping must not touch unbound particles, got vx=%g", rec.VX)
	}
}

func TestTorqueAndColorChannels(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "0, 0, 4, 0.5, x, 0.25, 1")
	driveAll(s)

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rec, _ := s.GetObject(idx)
	if rec.Omega != 2 {
		t.Errorf("expected omega=2 from torque, got %g", rec.Omega)
	}
	if rec.Theta != 1 {
		t.Errorf("expected theta=1, got %g", rec.Theta)
	}
	if rec.R != 0.5 || rec.G != 0 || rec.B != 0.25 || rec.A != 1 {
		t.Errorf("color written directly from channels, got %g %g %g %g",
			rec.R, rec.G, rec.B, rec.A)
	}
}

func TestCrossReferenceReadsFrameStart(t *testing.T) {
	// Both kernels read the other particle as it stood at frame start, so
	// evaluation order cannot leak into the result.
	s := New()
	a := addAt(t, s, 0, 0, 0, 0)
	b := addAt(t, s, 2, 0, 0, 0)
	bindEquation(t, s, a, "p[1].x, 0")
	bindEquation(t, s, b, "p[0].x, 0")
	driveAll(s)

	if err := s.Update(1); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	ra, _ := s.GetObject(a)
	rb, _ := s.GetObject(b)
	if ra.VX != 2 {
		t.Errorf("a reads b's frame-start x=2, got vx=%g", ra.VX)
	}
	if rb.VX != 0 {
		t.Errorf("b reads a's frame-start x=0, got vx=%g", rb.VX)
	}
}

func TestSetEquationErrors(t *testing.T) {
	s := New()
	addAt(t, s, 0, 0, 0, 0)

	if err := s.SetEquation(5, "0, 0"); !errors.Is(err, world.ErrNotFound) {
		t.Errorf("expected not-found for bad index, got %v", err)
	}
	if err := s.SetEquation(0, "0, "); err == nil {
		t.Error("expected a parse error")
	}
	if err := s.SetEquation(0, "p[3].x, 0"); err == nil {
		t.Error("expected a bind error for an out-of-range reference")
	}

	// A failed SetEquation leaves no binding behind.
	if _, ok := s.EquationStatus(0); ok {
		t.Error("failed SetEquation must not bind a program")
	}
}

func TestRebindReplacesProgram(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "1, 0")
	bindEquation(t, s, idx, "-1, 0")
	driveAll(s)

	if err := s.Update(1); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := s.GetObject(idx)
	if rec.VX != -1 {
		t.Errorf("expected the replacement equation to win, got vx=%g", rec.VX)
	}
}

func TestRemoveRenumbersReferences(t *testing.T) {
	s := New()
	addAt(t, s, 0, 0, 0, 0)            // removed
	addAt(t, s, 7, 0, 0, 0)            // becomes index 0
	tracker := addAt(t, s, 0, 0, 0, 0) // becomes index 1, tracks the one above
	bindEquation(t, s, tracker, "p[1].x, 0")
	driveAll(s)

	if err := s.RemoveObject(0); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if s.ObjectCount() != 2 {
		t.Fatalf("expected 2 objects, got %d", s.ObjectCount())
	}

	// The tracker moved to index 1 and its reference now points at index 0.
	if st, ok := s.EquationStatus(1); !ok || st != kernel.StatusReady {
		t.Fatalf("renumbered program should stay ready, got %v (ok=%v)", st, ok)
	}

	if err := s.Update(1); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := s.GetObject(1)
	if rec.VX != 7 {
		t.Errorf("rebound reference should read x=7, got vx=%g", rec.VX)
	}
}

func TestRemoveBreaksReferencingPrograms(t *testing.T) {
	s := New()
	target := addAt(t, s, 0, 0, 0, 0)
	watcher := addAt(t, s, 0, 0, 1, 0)
	bindEquation(t, s, watcher, "p[0].x, 0")
	driveAll(s)

	if err := s.RemoveObject(target); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	st, ok := s.EquationStatus(0)
	if !ok || st != kernel.StatusFailed {
		t.Fatalf("expected failed status, got %v (ok=%v)", st, ok)
	}

	// The engine keeps stepping; the broken particle coasts.
	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := s.GetObject(0)
	if rec.X != 0.5 || rec.VX != 1 {
		t.Errorf("broken particle should coast, got x=%g vx=%g", rec.X, rec.VX)
	}
}

func TestRemoveCancelsOwnCompile(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "sin(t), 0")

	if err := s.RemoveObject(idx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !s.AllKernelsReady() {
		t.Error("removing the particle should clear its queued compile")
	}
}

func TestTeleportFeedsNextFrame(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "x, 0")
	driveAll(s)

	if err := s.UpdateObject(world.BatchUpdate{
		Index: idx,
		Mask:  world.FieldX | world.FieldVX,
		X:     10,
	}); err != nil {
		t.Fatalf("teleport failed: %v", err)
	}

	rec, _ := s.GetObject(idx)
	if rec.X != 10 {
		t.Fatalf("teleport should land before the next frame, got x=%g", rec.X)
	}

	if err := s.Update(0.5); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ = s.GetObject(idx)
	if rec.VX != 5 {
		t.Errorf("kernel should see the teleported x=10, got vx=%g", rec.VX)
	}
}

func TestBatchUpdateAllOrNothing(t *testing.T) {
	s := New()
	addAt(t, s, 1, 0, 0, 0)

	err := s.BatchUpdate([]world.BatchUpdate{
		{Index: 0, Mask: world.FieldX, X: 5},
		{Index: 3, Mask: world.FieldX, X: 5},
	})
	if !errors.Is(err, world.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}

	rec, _ := s.GetObject(0)
	if rec.X != 1 {
		t.Errorf("failed batch must apply nothing, got x=%g", rec.X)
	}
}

func TestParameters(t *testing.T) {
	s := New()

	v, err := s.GetParameter("gravity")
	if err != nil || v != 9.81 {
		t.Errorf("expected default gravity 9.81, got %g (%v)", v, err)
	}

	// Aliases address the same parameter.
	if err := s.SetParameter("k", 4); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, _ = s.GetParameter("stiffness")
	if v != 4 {
		t.Errorf("alias write should land on stiffness, got %g", v)
	}

	if _, err := s.GetParameter("mystery"); !errors.Is(err, world.ErrUnknownParameter) {
		t.Errorf("expected unknown-parameter error, got %v", err)
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	build := func() *Simulation {
		s := New()
		for i := 0; i < 48; i++ {
			idx := addAt(t, s, float64(i%7), float64(i%5), 0, 0)
			bindEquation(t, s, idx,
				"(p[0].x - x) * 0.5 + noise2(x, y), (p[0].y - y) * 0.5 - 1")
		}
		driveAll(s)
		return s
	}

	a, b := build(), build()
	for i := 0; i < 25; i++ {
		if err := a.Update(0.02); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if err := b.Update(0.02); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	ra, rb := a.Records(), b.Records()
	for i := range ra {
		if ra[i] != rb[i] {
			t.Fatalf("runs diverged at particle %d: %+v vs %+v", i, ra[i], rb[i])
		}
	}
}

func TestNonFiniteStatePropagates(t *testing.T) {
	s := New()
	idx := addAt(t, s, 0, 0, 0, 0)
	bindEquation(t, s, idx, "1/x, 0")
	driveAll(s)

	if err := s.Update(0.1); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rec, _ := s.GetObject(idx)
	if rec.IsFinite() {
		t.Error("division by zero should drive the state non-finite")
	}
	// The engine itself must keep running.
	if err := s.Update(0.1); err != nil {
		t.Fatalf("update after non-finite state failed: %v", err)
	}
}

// Compile driving must serialize against stepping and status reads;
// run under the race detector this exercises every interleaving of
// Drive flipping a program Ready while Update evaluates it.
func TestConcurrentCompileAndStep(t *testing.T) {
	s := New()
	for i := 0; i < 4; i++ {
		addAt(t, s, float64(i), 0, 0, 0)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				s.DriveCompiles(1)
				s.AllKernelsReady()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		idx := i % 4
		bindEquation(t, s, idx, "sin(t), cos(t)")
		if err := s.Update(0.01); err != nil {
			t.Fatalf("update: %v", err)
		}
		s.EquationStatus(idx)
	}
	close(done)
	wg.Wait()
}
