package mutex

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate is a non-reentrant busy flag. Callers never wait on it: a failed
// TryAcquire means another run is in flight and the caller should back off.
type Gate struct {
	name string
	sem  *semaphore.Weighted
	held atomic.Bool
}

func NewGate(name string) *Gate {
	return &Gate{
		name: name,
		sem:  semaphore.NewWeighted(1),
	}
}

func (g *Gate) Name() string {
	return g.name
}

func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.held.Store(true)
	return true
}

// Release panics when the gate is not held, mirroring sync.Mutex.
func (g *Gate) Release() {
	g.held.Store(false)
	g.sem.Release(1)
}

// IsBusy reports whether the gate is held without touching it.
func (g *Gate) IsBusy() bool {
	return g.held.Load()
}
