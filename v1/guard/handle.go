package guard

// Handle grants temporary exclusive access to a Value's payload. It is bound
// to the goroutine and stack frame that obtained it: release it with a defer
// and do not pass it to other goroutines.
//
// A Handle never exposes the payload's address. Get copies the payload out,
// Set replaces it and Update mutates it in place, so no pointer into the
// payload can outlive the lock.
type Handle[T any] struct {
	value    *Value[T]
	owns     bool
	released bool
}

// Get returns a copy of the payload while still locked.
func (h *Handle[T]) Get() T {
	h.check()
	return h.value.payload
}

// Set replaces the whole payload.
func (h *Handle[T]) Set(payload T) {
	h.check()
	h.value.payload = payload
}

// Update runs fn against the payload in place. The pointer passed to fn is
// valid only until fn returns and must not be retained.
func (h *Handle[T]) Update(fn func(payload *T)) {
	h.check()
	fn(&h.value.payload)
}

// Release unlocks the value if this handle locked it. A handle that
// piggybacked on a lock already held by the calling goroutine leaves that
// lock untouched. Release is idempotent; the handle is invalid afterwards.
func (h *Handle[T]) Release() {
	if h.released {
		return
	}
	h.released = true
	if h.owns {
		h.value.core.release()
	}
}

func (h *Handle[T]) check() {
	if h.released {
		panic("guard: use of released Handle")
	}
}
