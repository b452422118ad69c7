package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestKeyedGuard_SkipsWhileHeld(t *testing.T) {
	t.Parallel()

	g := NewKeyedGuard()
	if !g.TryAcquire("2025-W01") {
		t.Fatalf("expected first acquire to succeed")
	}
	if g.TryAcquire("2025-W01") {
		t.Fatalf("expected second acquire on same key to fail")
	}
	if !g.TryAcquire("2025-W02") {
		t.Fatalf("expected other key to be independent")
	}

	held := g.Held()
	if len(held) != 2 || held[0] != "2025-W01" || held[1] != "2025-W02" {
		t.Fatalf("unexpected held keys: %v", held)
	}
	if _, ok := g.HeldSince("2025-W01"); !ok {
		t.Fatalf("expected held timestamp")
	}

	g.Release("2025-W01")
	if !g.TryAcquire("2025-W01") {
		t.Fatalf("expected acquire after release")
	}
}

func TestKeyedGuard_ConcurrentAcquire(t *testing.T) {
	t.Parallel()

	g := NewKeyedGuard()
	var winners int32

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if g.TryAcquire("k") {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&winners); got != 1 {
		t.Fatalf("expected exactly one holder, got %d", got)
	}
}
