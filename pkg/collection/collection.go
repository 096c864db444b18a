// Package collection provides an ordered sequence that is safe to share
// between loader goroutines and the render loop.
package collection

import "sync"

// Collection is a mutex-guarded ordered sequence of comparable values.
//
// Every single-element operation takes the internal lock on its own. For a
// consistent multi-element traversal use Read/Write, or take a scoped guard
// with RLock/Lock and release it with defer:
//
//	g := tasks.RLock()
//	defer g.Unlock()
//	for _, t := range g.Items() {
//	    ...
//	}
//
// Removal preserves the relative order of the remaining elements, so
// iteration order is always insertion order.
type Collection[T comparable] struct {
	mu    sync.RWMutex
	items []T
}

// New creates a collection holding the given items in order.
func New[T comparable](items ...T) *Collection[T] {
	c := &Collection[T]{
		items: make([]T, 0, len(items)),
	}
	c.items = append(c.items, items...)
	return c
}

// Append adds v at the end of the sequence.
func (c *Collection[T]) Append(v T) {
	c.mu.Lock()
	c.items = append(c.items, v)
	c.mu.Unlock()
}

// Remove deletes the first element equal to v.
// It returns false when v is not present.
func (c *Collection[T]) Remove(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(v)
}

// RemoveFunc deletes every element for which fn returns true and returns
// the removed elements in their original order.
func (c *Collection[T]) RemoveFunc(fn func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []T
	kept := c.items[:0]
	for _, v := range c.items {
		if fn(v) {
			removed = append(removed, v)
			continue
		}
		kept = append(kept, v)
	}
	var zero T
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = zero
	}
	c.items = kept
	return removed
}

// Contains reports whether v is present.
func (c *Collection[T]) Contains(v T) bool {
	return c.IndexOf(v) >= 0
}

// IndexOf returns the position of the first element equal to v, or -1.
func (c *Collection[T]) IndexOf(v T) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return indexOf(c.items, v)
}

// Len returns the number of elements.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the element at position i.
func (c *Collection[T]) At(i int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// First returns the oldest element still present.
func (c *Collection[T]) First() (T, bool) {
	return c.At(0)
}

// Snapshot returns a copy of the current elements.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Clear removes every element.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	clear(c.items)
	c.items = c.items[:0]
	c.mu.Unlock()
}

// Drain removes every element and returns them in order.
func (c *Collection[T]) Drain() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = make([]T, 0, cap(out))
	return out
}

// Range calls fn for each element under the shared lock until fn returns false.
// fn must not modify the collection.
func (c *Collection[T]) Range(fn func(i int, v T) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, v := range c.items {
		if !fn(i, v) {
			return
		}
	}
}

// Read runs fn with the shared lock held. The slice is only valid inside fn.
func (c *Collection[T]) Read(fn func(items []T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.items)
}

// Write runs fn with the exclusive lock held and stores the slice it returns.
func (c *Collection[T]) Write(fn func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.items)
}

// RLock takes the shared lock and returns a guard that releases it.
func (c *Collection[T]) RLock() *ReadGuard[T] {
	c.mu.RLock()
	return &ReadGuard[T]{c: c}
}

// Lock takes the exclusive lock and returns a guard that releases it.
func (c *Collection[T]) Lock() *WriteGuard[T] {
	c.mu.Lock()
	return &WriteGuard[T]{c: c}
}

func (c *Collection[T]) removeLocked(v T) bool {
	i := indexOf(c.items, v)
	if i < 0 {
		return false
	}
	copy(c.items[i:], c.items[i+1:])
	var zero T
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	return true
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
