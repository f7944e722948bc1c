package mutex

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGateTryAcquire(t *testing.T) {
	g := NewGate("notifications")

	if g.IsBusy() {
		t.Fatal("new gate should not be busy")
	}
	if !g.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if !g.IsBusy() {
		t.Error("held gate should be busy")
	}
	if g.TryAcquire() {
		t.Error("second TryAcquire should fail while held")
	}

	g.Release()

	if g.IsBusy() {
		t.Error("released gate should not be busy")
	}
	if !g.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	g.Release()
}

func TestGateReleaseWithoutAcquirePanics(t *testing.T) {
	g := NewGate("auto-completion")

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on Release without TryAcquire")
		}
	}()
	g.Release()
}

func TestGateSingleWinner(t *testing.T) {
	g := NewGate("notifications")

	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("winners: got %d, want 1", got)
	}
}

func TestGateIsBusyNeverBlocksOwner(t *testing.T) {
	g := NewGate("auto-completion")

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				g.IsBusy()
			}
		}
	}()

	var failures int
	for i := 0; i < 100000; i++ {
		if !g.TryAcquire() {
			failures++
			continue
		}
		g.Release()
	}
	close(stop)
	wg.Wait()

	if failures != 0 {
		t.Errorf("TryAcquire on an idle gate failed %d times while another goroutine checked IsBusy", failures)
	}
}
