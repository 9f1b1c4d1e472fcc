package sdk

import (
	"context"
	"sync"
	"time"
)

// waitSlice bounds each sleep inside AwaitClear so the wait stays
// cancelable and never oversleeps the expiration by more than one slice.
const waitSlice = 100 * time.Millisecond

// CooldownGate tracks the single server-imposed cooldown window for a
// character and blocks callers until it has expired.
//
// The game server reports an absolute expiration timestamp after every
// mutating action. The gate holds exactly one window: arming it again
// always replaces the previous window, because a later action's cooldown
// supersedes the earlier one.
//
// All methods are safe for concurrent use.
type CooldownGate struct {
	mu        sync.Mutex
	expiresAt time.Time
	now       func() time.Time // overridable for tests
}

// NewCooldownGate returns an unarmed gate.
func NewCooldownGate() *CooldownGate {
	return &CooldownGate{now: time.Now}
}

// Arm sets the cooldown window, replacing any existing one.
func (g *CooldownGate) Arm(expiresAt time.Time) {
	g.mu.Lock()
	g.expiresAt = expiresAt
	g.mu.Unlock()
}

// IsActive reports whether a cooldown window is currently open.
func (g *CooldownGate) IsActive() bool {
	return g.Remaining() > 0
}

// Remaining returns the time left on the current window, or zero when the
// gate is unarmed or expired.
func (g *CooldownGate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.expiresAt.IsZero() {
		return 0
	}
	remaining := g.expiresAt.Sub(g.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AwaitClear blocks until the window has expired or ctx is done. It sleeps
// in short slices rather than one long sleep, so cancellation is honored
// promptly. An unarmed gate returns immediately.
func (g *CooldownGate) AwaitClear(ctx context.Context) error {
	for {
		remaining := g.Remaining()
		if remaining <= 0 {
			return nil
		}
		if remaining > waitSlice {
			remaining = waitSlice
		}

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
