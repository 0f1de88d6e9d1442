// Package fireguard suppresses duplicate scheduler firings. A condition that
// stays true across ticks (a task still inside the deadline horizon, a budget
// still over threshold) fires once and is then held back until its guard key
// expires.
package fireguard

import (
	"context"
	"time"
)

// FireGuard tracks which firing keys have already fired.
type FireGuard interface {
	// FirstFire reports whether key fires for the first time within ttl.
	// The first caller for a key gets true; later callers get false until
	// the ttl lapses.
	FirstFire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
