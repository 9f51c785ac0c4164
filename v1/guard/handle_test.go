package guard

import (
	"testing"
)

func TestHandleReleaseIsIdempotent(t *testing.T) {
	v := New(1)
	h := v.Access()
	h.Release()
	h.Release()

	// the value must be free again
	s, ok, err := TryEnter(v)
	if err != nil || !ok {
		t.Fatalf("value still locked after release: ok %v err %v", ok, err)
	}
	s.Exit()
}

func TestHandleUseAfterReleasePanics(t *testing.T) {
	v := New(1)
	h := v.Access()
	h.Release()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on use of released handle")
		}
	}()
	h.Get()
}

func TestHandleUpdateAndSet(t *testing.T) {
	v := New(profile{Name: "mourek", Score: 9})
	h := v.Access()
	h.Update(func(p *profile) { p.Score-- })
	if got := h.Get(); got.Score != 8 {
		t.Fatalf("update: want score 8, got %d", got.Score)
	}
	h.Set(profile{Name: "zofie", Score: 7})
	h.Release()
	if got := v.Get(); got.Name != "zofie" || got.Score != 7 {
		t.Fatalf("set through handle not visible: %+v", got)
	}
}

func TestHandlePiggybacksOnScope(t *testing.T) {
	a := New(1)
	b := New(2)
	s, err := Enter(a, b)
	if err != nil {
		t.Fatalf("enter: %v", err)
	}

	// Access on a scope-held value from the holding goroutine must not
	// block and must not become an independent lock holder.
	h := a.Access()
	h.Update(func(p *int) { *p = 10 })
	h.Release()

	// releasing the piggybacked handle must leave the scope's lock intact
	if _, ok, err := TryEnter(a); err == nil && ok {
		t.Fatal("scope lock was dropped by piggybacked handle release")
	}

	s.Exit()
	if got := a.Get(); got != 10 {
		t.Fatalf("update inside scope lost: got %d", got)
	}
}

func TestNestedHandlesReleaseOnce(t *testing.T) {
	v := New(0)
	outer := v.Access()
	inner := v.Access() // same goroutine, piggybacks
	inner.Update(func(p *int) { *p = 1 })
	inner.Release()

	// outer still holds the lock
	if _, ok, _ := TryEnter(v); ok {
		t.Fatal("lock dropped by inner handle")
	}
	outer.Release()
	s, ok, _ := TryEnter(v)
	if !ok {
		t.Fatal("lock not released by outer handle")
	}
	s.Exit()
}
