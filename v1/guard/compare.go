package guard

import "cmp"

// Compare locks a and b together and orders their payloads, returning -1, 0
// or 1. Both values are unlocked again when it returns. It panics with a
// ReentrancyError if the calling goroutine holds exactly one of the operands
// through another scope.
func Compare[T cmp.Ordered](a, b *Value[T]) int {
	return CompareFunc(a, b, cmp.Compare[T])
}

// Less reports whether a's payload orders before b's. See Compare.
func Less[T cmp.Ordered](a, b *Value[T]) bool {
	return Compare(a, b) < 0
}

// Equal locks a and b together and reports whether their payloads are equal.
// It panics under the same condition as Compare.
func Equal[T comparable](a, b *Value[T]) bool {
	s, err := Enter(a, b)
	if err != nil {
		panic(err)
	}
	defer s.Exit()
	return a.payload == b.payload
}

// CompareFunc is Compare for payload types without a natural order. fn runs
// while both values are locked.
func CompareFunc[T any](a, b *Value[T], fn func(a, b T) int) int {
	s, err := Enter(a, b)
	if err != nil {
		panic(err)
	}
	defer s.Exit()
	return fn(a.payload, b.payload)
}
