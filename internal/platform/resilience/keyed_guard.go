package resilience

import (
	"sort"
	"sync"
	"time"
)

// KeyedGuard admits at most one holder per key. Callers that lose the race
// are expected to skip their work instead of waiting.
type KeyedGuard struct {
	mu      sync.Mutex
	holders map[string]time.Time
	now     func() time.Time
}

func NewKeyedGuard() *KeyedGuard {
	return &KeyedGuard{
		holders: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (g *KeyedGuard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.holders[key]; held {
		return false
	}
	g.holders[key] = g.now()
	return true
}

func (g *KeyedGuard) Release(key string) {
	g.mu.Lock()
	delete(g.holders, key)
	g.mu.Unlock()
}

// HeldSince reports when the current holder of key acquired it.
func (g *KeyedGuard) HeldSince(key string) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	at, ok := g.holders[key]
	return at, ok
}

// Held lists the keys currently held, sorted.
func (g *KeyedGuard) Held() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(g.holders))
	for key := range g.holders {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
