// Package guard provides a concurrency-safe value wrapper and a companion
// multi-lock scope. A Value serializes every read and write of its payload
// behind an implicit exclusive lock. A Scope atomically locks an arbitrary
// set of values for its lifetime, acquiring them in a process-wide identity
// order so that overlapping scopes on different goroutines never deadlock.
// Access from a goroutine that already holds a value piggybacks on the
// existing lock instead of re-locking.
package guard
