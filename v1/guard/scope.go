package guard

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	guarderrors "github.com/mirkobrombin/go-guard/v1/errors"
	"github.com/mirkobrombin/go-guard/v1/metrics"
	"github.com/mirkobrombin/go-guard/v1/tid"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-guard/v1/guard")

// Lockable is the capability a Scope needs from its participants. It is
// implemented only by *Value.
type Lockable interface {
	lockable() *lockCore
}

// ReentrancyError reports a scope whose participant set mixes values already
// held by the calling goroutine with values that still need locking. Locking
// the new values while keeping the old ones held would bypass the ordered
// acquisition that makes scopes deadlock-free, so the scope is refused.
type ReentrancyError struct {
	Owner   tid.ID // calling goroutine
	Held    int    // participants it already holds
	Pending int    // participants that would need locking
}

func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("guard: %v: goroutine %d already holds %d of %d requested values",
		guarderrors.ErrReentrancyConflict, e.Owner, e.Held, e.Held+e.Pending)
}

func (e *ReentrancyError) Unwrap() error { return guarderrors.ErrReentrancyConflict }

// Scope holds an arbitrary set of values locked for its lifetime. Enter a
// scope when an operation must be atomic across several values; exit it with
// a defer.
type Scope struct {
	id      string
	owner   tid.ID
	claimed []*lockCore
	exited  bool
}

// ID returns the scope's unique identifier, also attached to its span when
// tracing is enabled.
func (s *Scope) ID() string { return s.id }

// Enter locks every distinct value in vals and returns the holding scope.
// Values already held by the calling goroutine are recognized and left
// untouched; if they are mixed with values that still need locking the scope
// is refused with an error wrapping errors.ErrReentrancyConflict. Enter
// blocks, without bound, while contended values are held elsewhere.
func Enter(vals ...Lockable) (*Scope, error) {
	return EnterContext(context.Background(), vals...)
}

// EnterContext is Enter honoring ctx while waiting for contended values. On
// cancellation every claim made so far is rolled back and ctx's error is
// returned. The context also parents the acquisition span when any
// participant was created with WithTracing.
func EnterContext(ctx context.Context, vals ...Lockable) (*Scope, error) {
	owner := tid.Current()
	need, held, traced := partition(vals, owner)
	if held > 0 && len(need) > 0 {
		return nil, &ReentrancyError{Owner: owner, Held: held, Pending: len(need)}
	}
	metrics.ScopeCounter.Inc()
	s := &Scope{id: uuid.NewString(), owner: owner}
	var span trace.Span
	if traced {
		ctx, span = tracer.Start(ctx, "Scope.Enter")
		defer span.End()
		span.SetAttributes(
			attribute.String("guard.scope.id", s.id),
			attribute.Int("guard.scope.participants", len(need)),
		)
	}
	retries := 0
	for {
		busy := s.claimAll(need)
		if busy == nil {
			break
		}
		// Never hold a partial claim while waiting: roll everything back,
		// wait for the busy value to unlock, then retry from scratch.
		s.unclaim()
		retries++
		metrics.ScopeRetryCounter.Inc()
		if err := busy.waitUnlocked(ctx); err != nil {
			if traced {
				span.RecordError(err)
			}
			return nil, err
		}
	}
	for _, c := range s.claimed {
		c.commit(owner)
	}
	if traced {
		span.SetAttributes(attribute.Int("guard.scope.retries", retries))
	}
	return s, nil
}

// TryEnter attempts a single claim cycle without blocking. It reports false
// when any participant is held by another goroutine.
func TryEnter(vals ...Lockable) (*Scope, bool, error) {
	owner := tid.Current()
	need, held, _ := partition(vals, owner)
	if held > 0 && len(need) > 0 {
		return nil, false, &ReentrancyError{Owner: owner, Held: held, Pending: len(need)}
	}
	metrics.ScopeCounter.Inc()
	s := &Scope{id: uuid.NewString(), owner: owner}
	if busy := s.claimAll(need); busy != nil {
		s.unclaim()
		return nil, false, nil
	}
	for _, c := range s.claimed {
		c.commit(owner)
	}
	return s, true, nil
}

// Exit releases every value this scope locked, waking blocked acquirers.
// Values the caller already held when the scope was entered stay held. Exit
// is idempotent.
func (s *Scope) Exit() {
	if s.exited {
		return
	}
	s.exited = true
	for _, c := range s.claimed {
		c.release()
	}
	s.claimed = nil
}

// partition dedupes the participants and splits out the cores the calling
// goroutine still has to lock, sorted by identity ordinal so that every
// scope in the process acquires overlapping sets in the same relative order.
func partition(vals []Lockable, owner tid.ID) (need []*lockCore, held int, traced bool) {
	seen := make(map[*lockCore]struct{}, len(vals))
	for _, v := range vals {
		c := v.lockable()
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		traced = traced || c.trace
		if c.heldBy(owner) {
			held++
			continue
		}
		need = append(need, c)
	}
	slices.SortFunc(need, func(a, b *lockCore) int {
		return cmp.Compare(a.ord, b.ord)
	})
	return need, held, traced
}

// claimAll places a transitional claim on every core in identity order,
// recording successes on the scope. It returns the first busy core, or nil
// when all claims succeeded.
func (s *Scope) claimAll(need []*lockCore) *lockCore {
	s.claimed = s.claimed[:0]
	for _, c := range need {
		if !c.tryClaim(s.owner) {
			return c
		}
		s.claimed = append(s.claimed, c)
	}
	return nil
}

func (s *Scope) unclaim() {
	for _, c := range s.claimed {
		c.releaseWord()
	}
	s.claimed = s.claimed[:0]
}
