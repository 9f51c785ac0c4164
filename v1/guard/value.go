package guard

import "github.com/mirkobrombin/go-guard/v1/tid"

// Value wraps a payload of type T behind an implicit exclusive lock. All
// access goes through Access, Do, Get or Set, or through a Scope covering
// the value. A Value must not be copied after first use; share it by pointer.
type Value[T any] struct {
	core    lockCore
	payload T
}

// Option configures a Value.
type Option[T any] func(*Value[T])

// WithTracing enables OpenTelemetry spans for multi-lock scopes entered over
// this value.
func WithTracing[T any]() Option[T] {
	return func(v *Value[T]) { v.core.trace = true }
}

// New creates a Value owning payload.
func New[T any](payload T, opts ...Option[T]) *Value[T] {
	v := &Value[T]{payload: payload}
	v.core.ord = ordinals.Add(1)
	v.core.notify = make(chan struct{})
	for _, o := range opts {
		o(v)
	}
	return v
}

// Access locks the value for the calling goroutine and returns a Handle for
// it. It blocks while another goroutine holds the lock. If the calling
// goroutine already holds the value, through a Scope or an outer Handle, the
// returned Handle piggybacks on that lock and releasing it is a no-op.
func (v *Value[T]) Access() *Handle[T] {
	owns := v.core.acquire(tid.Current())
	return &Handle[T]{value: v, owns: owns}
}

// Do runs fn with exclusive access to the payload. The pointer passed to fn
// is valid only until fn returns and must not be retained.
func (v *Value[T]) Do(fn func(payload *T)) {
	h := v.Access()
	defer h.Release()
	fn(&v.payload)
}

// Get locks the value, copies the payload out and releases. Use it when a
// detached snapshot is enough.
func (v *Value[T]) Get() T {
	h := v.Access()
	defer h.Release()
	return v.payload
}

// Set locks the value, replaces the whole payload and releases.
func (v *Value[T]) Set(payload T) {
	h := v.Access()
	defer h.Release()
	v.payload = payload
}

func (v *Value[T]) lockable() *lockCore { return &v.core }
