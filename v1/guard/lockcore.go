package guard

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mirkobrombin/go-guard/v1/metrics"
	"github.com/mirkobrombin/go-guard/v1/tid"
)

// Lock word layout: the owner goroutine ID shifted left by stateBits, with
// the state in the low bits. The zero word means unlocked with no owner, so
// a single compare-and-swap covers the Unlocked -> held transition.
const (
	stateUnlocked uint64 = iota
	stateAccess
	stateScope
	stateClaimed

	stateBits = 2
)

// ordinals assigns each core a process-wide identity used to fix the
// acquisition order across all scopes.
var ordinals atomic.Uint64

// lockCore is the non-generic lock state shared by every Value regardless of
// payload type. The word is the single source of truth for ownership; mu only
// guards the notify channel.
type lockCore struct {
	word  atomic.Uint64
	ord   uint64
	trace bool

	mu     sync.Mutex
	notify chan struct{}
}

func pack(owner tid.ID, state uint64) uint64 {
	return uint64(owner)<<stateBits | state
}

func owner(word uint64) tid.ID {
	return tid.ID(word >> stateBits)
}

// heldBy reports whether id currently owns the core, in any held state.
func (c *lockCore) heldBy(id tid.ID) bool {
	w := c.word.Load()
	return w != 0 && owner(w) == id
}

// acquire blocks until the core transitions Unlocked -> HeldByAccess for id.
// It reports false without locking when id already owns the core; the caller
// then must not release.
func (c *lockCore) acquire(id tid.ID) bool {
	if c.heldBy(id) {
		metrics.ReentrantCounter.Inc()
		return false
	}
	target := pack(id, stateAccess)
	for !c.word.CompareAndSwap(0, target) {
		_ = c.waitUnlocked(context.Background())
	}
	metrics.AcquireCounter.Inc()
	metrics.HeldGauge.Inc()
	return true
}

// tryClaim attempts the transitional claim a scope places on a participant
// before committing to it.
func (c *lockCore) tryClaim(id tid.ID) bool {
	return c.word.CompareAndSwap(0, pack(id, stateClaimed))
}

// commit upgrades a claim held by id to a full scope lock.
func (c *lockCore) commit(id tid.ID) {
	c.word.Store(pack(id, stateScope))
	metrics.AcquireCounter.Inc()
	metrics.HeldGauge.Inc()
}

// releaseWord resets the core to Unlocked and wakes every blocked waiter.
// The atomic store publishes all payload writes made under the lock.
func (c *lockCore) releaseWord() {
	c.word.Store(0)
	c.mu.Lock()
	close(c.notify)
	c.notify = make(chan struct{})
	c.mu.Unlock()
}

// release is releaseWord for a committed lock.
func (c *lockCore) release() {
	c.releaseWord()
	metrics.HeldGauge.Dec()
}

// waitUnlocked blocks until the core reports unlocked at least once, or ctx
// is cancelled. A wakeup is only a hint; callers retry their claim.
func (c *lockCore) waitUnlocked(ctx context.Context) error {
	c.mu.Lock()
	ch := c.notify
	if c.word.Load() == 0 {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	metrics.ContentionCounter.Inc()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
