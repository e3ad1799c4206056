package orchestrator

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGate_TryAcquireRelease(t *testing.T) {
	g := NewGate()

	if !g.TryAcquire("research") {
		t.Fatal("first acquire failed")
	}
	if g.TryAcquire("research") {
		t.Error("second acquire succeeded while held")
	}
	if !g.Held("research") {
		t.Error("Held = false while held")
	}

	g.Release("research")
	if g.Held("research") {
		t.Error("Held = true after release")
	}
	if !g.TryAcquire("research") {
		t.Error("acquire after release failed")
	}
}

func TestGate_CategoriesAreIndependent(t *testing.T) {
	g := NewGate()
	if !g.TryAcquire("research") {
		t.Fatal("acquire research failed")
	}
	if !g.TryAcquire("adcopy") {
		t.Error("adcopy blocked by the research lock")
	}
}

func TestGate_ReleaseWithoutAcquireIsNoOp(t *testing.T) {
	g := NewGate()
	g.Release("research")
	if !g.TryAcquire("research") {
		t.Error("acquire failed after spurious release")
	}
}

func TestGate_ConcurrentAcquire(t *testing.T) {
	g := NewGate()
	var won int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("research") {
				atomic.AddInt32(&won, 1)
			}
		}()
	}
	wg.Wait()
	if won != 1 {
		t.Errorf("%d goroutines won the lock, want exactly 1", won)
	}
}
