package orchestrator

import "sync"

// Gate enforces per-category exclusivity: at most one operation of a given
// category may be in flight at a time. Categories are independent of each
// other, so a research probe never blocks a creative generation.
type Gate struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewGate returns an empty gate.
func NewGate() *Gate {
	return &Gate{held: make(map[string]bool)}
}

// TryAcquire claims the category if it is free. It never blocks.
func (g *Gate) TryAcquire(category string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[category] {
		return false
	}
	g.held[category] = true
	return true
}

// Release frees the category. Releasing a free category is a no-op.
func (g *Gate) Release(category string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, category)
}

// Held reports whether the category is currently claimed.
func (g *Gate) Held(category string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[category]
}
