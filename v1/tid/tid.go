// Package tid provides a stable, comparable identity for the calling
// goroutine. Ownership tracking in guard records which goroutine holds a
// lock; None is the sentinel for "no owner" and never collides with a real
// goroutine ID.
package tid

import "github.com/petermattis/goid"

// ID identifies a goroutine. IDs are positive and never reused while the
// goroutine is alive.
type ID int64

// None is the null identity. No running goroutine ever has this ID.
const None ID = 0

// Current returns the ID of the calling goroutine.
func Current() ID {
	return ID(goid.Get())
}
