package collection

import "sync"

// ReadGuard holds the shared lock of a Collection until Unlock is called.
// Unlock is idempotent, so it is safe to defer it and also call it early.
type ReadGuard[T comparable] struct {
	c    *Collection[T]
	once sync.Once
}

// Items returns the guarded elements. The slice must not be retained or
// modified after Unlock.
func (g *ReadGuard[T]) Items() []T {
	return g.c.items
}

// Len returns the number of guarded elements.
func (g *ReadGuard[T]) Len() int {
	return len(g.c.items)
}

// Unlock releases the shared lock.
func (g *ReadGuard[T]) Unlock() {
	g.once.Do(g.c.mu.RUnlock)
}

// WriteGuard holds the exclusive lock of a Collection until Unlock is called.
type WriteGuard[T comparable] struct {
	c    *Collection[T]
	once sync.Once
}

// Items returns the guarded elements.
func (g *WriteGuard[T]) Items() []T {
	return g.c.items
}

// Append adds v while the lock is held.
func (g *WriteGuard[T]) Append(v T) {
	g.c.items = append(g.c.items, v)
}

// Remove deletes the first element equal to v while the lock is held.
func (g *WriteGuard[T]) Remove(v T) bool {
	return g.c.removeLocked(v)
}

// Unlock releases the exclusive lock.
func (g *WriteGuard[T]) Unlock() {
	g.once.Do(g.c.mu.Unlock)
}
