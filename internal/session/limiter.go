package session

// limiter.go implements concurrency control for dataset reloads.
//
// Reloads are exclusive: the gate holds a single slot, so a reload
// arriving while another is running either waits up to maxWait for the
// slot or fails with ErrReloadInProgress. Handlers that must not block
// use TryAcquire and turn a refusal into an immediate conflict response.
//
// The gate also supports graceful shutdown via WaitForDrain, which blocks
// until an in-flight reload completes.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrReloadInProgress is returned when the reload slot is occupied and the
// wait timeout expires. Clients should retry after the running reload
// finishes.
var ErrReloadInProgress = errors.New("reload already in progress, please try again later")

// DefaultReloadWait is how long Acquire waits for the slot before rejecting.
const DefaultReloadWait = 10 * time.Second

// ReloadGate serializes dataset reloads. Only one reload may hold the gate
// at a time; everything else observes or waits.
type ReloadGate struct {
	slot    chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewReloadGate creates a gate whose Acquire waits at most maxWait for the
// reload slot before returning ErrReloadInProgress.
func NewReloadGate(maxWait time.Duration) *ReloadGate {
	if maxWait <= 0 {
		maxWait = DefaultReloadWait
	}

	return &ReloadGate{
		slot:    make(chan struct{}, 1),
		maxWait: maxWait,
	}
}

// Acquire attempts to take the reload slot.
// Returns nil on success, ErrReloadInProgress if the timeout expires.
// The caller MUST call Release() when the reload completes (use defer).
func (g *ReloadGate) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	select {
	case g.slot <- struct{}{}:
		g.mu.Lock()
		g.active++
		g.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from the wait timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrReloadInProgress

	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to take the slot without blocking.
// Returns true if the slot was acquired, false otherwise.
func (g *ReloadGate) TryAcquire() bool {
	select {
	case g.slot <- struct{}{}:
		g.mu.Lock()
		g.active++
		g.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release releases the slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (g *ReloadGate) Release() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()

	<-g.slot
}

// Busy reports whether a reload currently holds the slot.
func (g *ReloadGate) Busy() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active > 0
}

// ActiveCount returns the number of reloads holding the slot (0 or 1).
func (g *ReloadGate) ActiveCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// WaitForDrain blocks until no reload is running or the context is
// cancelled. Used for graceful shutdown so a reload is never cut off
// mid-swap.
func (g *ReloadGate) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if g.ActiveCount() == 0 {
				return nil
			}
		}
	}
}
