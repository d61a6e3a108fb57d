package kernel

import "sync"

// Loader is the asynchronous compile queue. Submitting returns
// immediately; Drive advances the queue by a bounded number of work units
// so callers can interleave compilation with other per-frame work. Each
// program costs two units: Pending -> Compiling, then Compiling ->
// Ready/Failed.
type Loader struct {
	mu    sync.Mutex
	queue []*Program
}

func NewLoader() *Loader {
	return &Loader{}
}

// Handle tracks one submitted program.
type Handle struct {
	p *Program
}

// Status reports the handle's compile state.
func (h Handle) Status() Status { return h.p.Status() }

// Err returns the compile failure, nil unless the status is StatusFailed.
func (h Handle) Err() error { return h.p.Err() }

// Submit enqueues a bound program and returns its handle. The program
// starts Pending; its particle steps with frozen dynamics until Ready.
func (l *Loader) Submit(p *Program) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.status = StatusPending
	l.queue = append(l.queue, p)
	return Handle{p: p}
}

// Drive performs at most budget units of compilation work and returns the
// number of units done. A budget below one is treated as one.
func (l *Loader) Drive(budget int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if budget < 1 {
		budget = 1
	}

	done := 0
	for done < budget && len(l.queue) > 0 {
		p := l.queue[0]
		switch p.status {
		case StatusPending:
			p.status = StatusCompiling
		case StatusCompiling:
			if err := p.compile(); err != nil {
				p.Fail(err)
			} else {
				p.status = StatusReady
			}
			l.queue = l.queue[1:]
		default:
			// Broken by a removal while queued.
			l.queue = l.queue[1:]
			continue
		}
		done++
	}
	return done
}

// AllReady reports whether no submitted program is still Pending or
// Compiling.
func (l *Loader) AllReady() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) == 0
}

// Outstanding returns the number of programs still awaiting compilation.
func (l *Loader) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Cancel discards an in-flight compilation. The program never becomes
// Ready; no partial kernel is installed.
func (l *Loader) Cancel(h Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, q := range l.queue {
		if q == h.p {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return
		}
	}
}
