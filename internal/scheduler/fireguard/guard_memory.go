package fireguard

import (
	"context"
	"sync"
	"time"
)

// MemoryGuard keeps fired keys in process memory. Suited to single-node
// deployments and tests; a restart forgets all firings.
type MemoryGuard struct {
	mu    sync.Mutex
	fired map[string]time.Time
	now   func() time.Time
}

// NewMemory constructs an empty in-memory fire guard.
func NewMemory() *MemoryGuard {
	return &MemoryGuard{
		fired: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (g *MemoryGuard) FirstFire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expiry, ok := g.fired[key]; ok && now.Before(expiry) {
		return false, nil
	}

	// Expired entries are swept on write, so the map stays bounded by the
	// number of keys fired within one ttl window.
	for k, expiry := range g.fired {
		if !now.Before(expiry) {
			delete(g.fired, k)
		}
	}

	g.fired[key] = now.Add(ttl)
	return true, nil
}

var _ FireGuard = (*MemoryGuard)(nil)
