package collection

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestAppendKeepsInsertionOrder verifies iteration follows insertion order.
func TestAppendKeepsInsertionOrder(t *testing.T) {
	c := New[int]()
	for i := 1; i <= 5; i++ {
		c.Append(i)
	}

	if got := c.Snapshot(); !equalInts(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("Snapshot() = %v, want [1 2 3 4 5]", got)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

// TestRemovePreservesOrder verifies removal does not reorder the remaining elements.
func TestRemovePreservesOrder(t *testing.T) {
	tests := []struct {
		name    string
		initial []int
		remove  int
		want    []int
		removed bool
	}{
		{"first", []int{1, 2, 3, 4}, 1, []int{2, 3, 4}, true},
		{"middle", []int{1, 2, 3, 4}, 2, []int{1, 3, 4}, true},
		{"last", []int{1, 2, 3, 4}, 4, []int{1, 2, 3}, true},
		{"first of duplicates", []int{7, 1, 7}, 7, []int{1, 7}, true},
		{"absent", []int{1, 2}, 9, []int{1, 2}, false},
		{"empty", nil, 1, []int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.initial...)
			if got := c.Remove(tt.remove); got != tt.removed {
				t.Errorf("Remove(%d) = %v, want %v", tt.remove, got, tt.removed)
			}
			if got := c.Snapshot(); !equalInts(got, tt.want) {
				t.Errorf("after Remove: %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveFunc(t *testing.T) {
	c := New(1, 2, 3, 4, 5, 6)
	removed := c.RemoveFunc(func(v int) bool { return v%2 == 0 })

	if !equalInts(removed, []int{2, 4, 6}) {
		t.Errorf("removed = %v, want [2 4 6]", removed)
	}
	if got := c.Snapshot(); !equalInts(got, []int{1, 3, 5}) {
		t.Errorf("remaining = %v, want [1 3 5]", got)
	}
}

func TestAtAndFirst(t *testing.T) {
	c := New(10, 20)

	if v, ok := c.First(); !ok || v != 10 {
		t.Errorf("First() = %d, %v; want 10, true", v, ok)
	}
	if v, ok := c.At(1); !ok || v != 20 {
		t.Errorf("At(1) = %d, %v; want 20, true", v, ok)
	}
	if _, ok := c.At(2); ok {
		t.Error("At(2) should be out of range")
	}
	if _, ok := c.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
	if _, ok := New[int]().First(); ok {
		t.Error("First() on empty collection should report false")
	}
}

func TestDrain(t *testing.T) {
	c := New(1, 2, 3)
	got := c.Drain()

	if !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("Drain() = %v, want [1 2 3]", got)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Drain = %d, want 0", c.Len())
	}

	// The drained slice must not alias the collection's new storage.
	c.Append(9)
	if got[0] != 1 {
		t.Errorf("drained slice was overwritten: %v", got)
	}
}

func TestClearReleasesElements(t *testing.T) {
	a, b := new(int), new(int)
	c := New(a, b)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	for i, v := range c.items[:2] {
		if v != nil {
			t.Errorf("backing slot %d still holds %p after Clear", i, v)
		}
	}
}

func TestRangeStopsEarly(t *testing.T) {
	c := New(1, 2, 3, 4)
	var seen []int
	c.Range(func(_ int, v int) bool {
		seen = append(seen, v)
		return v < 2
	})

	if !equalInts(seen, []int{1, 2}) {
		t.Errorf("Range visited %v, want [1 2]", seen)
	}
}

// TestConcurrentAppendRemove verifies no updates are lost under contention.
func TestConcurrentAppendRemove(t *testing.T) {
	c := New[int]()
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				c.Append(base*perWorker + i)
			}
		}(w)
	}
	wg.Wait()

	if c.Len() != workers*perWorker {
		t.Fatalf("Len() = %d, want %d", c.Len(), workers*perWorker)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i += 2 {
				if !c.Remove(base*perWorker + i) {
					t.Errorf("Remove(%d) reported absent", base*perWorker+i)
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() != workers*perWorker/2 {
		t.Errorf("Len() after removals = %d, want %d", c.Len(), workers*perWorker/2)
	}
}

// TestReadGuardReleasedOnEarlyReturn verifies a deferred guard releases the
// lock on an error path so writers can proceed.
func TestReadGuardReleasedOnEarlyReturn(t *testing.T) {
	c := New(1, 2, 3)
	errStop := errors.New("stop")

	walk := func() error {
		g := c.RLock()
		defer g.Unlock()
		for _, v := range g.Items() {
			if v == 2 {
				return errStop
			}
		}
		return nil
	}

	if err := walk(); !errors.Is(err, errStop) {
		t.Fatalf("walk() = %v, want errStop", err)
	}

	done := make(chan struct{})
	go func() {
		c.Append(4)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Append blocked: read guard was not released")
	}
}

// TestGuardUnlockIdempotent verifies calling Unlock twice does not panic.
func TestGuardUnlockIdempotent(t *testing.T) {
	c := New(1)

	rg := c.RLock()
	rg.Unlock()
	rg.Unlock()

	wg := c.Lock()
	wg.Append(2)
	if !wg.Remove(1) {
		t.Error("WriteGuard.Remove(1) = false, want true")
	}
	wg.Unlock()
	wg.Unlock()

	if got := c.Snapshot(); !equalInts(got, []int{2}) {
		t.Errorf("Snapshot() = %v, want [2]", got)
	}
}

// TestSharedGuardsCoexist verifies several readers may hold the shared lock at once.
func TestSharedGuardsCoexist(t *testing.T) {
	c := New(1, 2)
	g1 := c.RLock()
	defer g1.Unlock()

	done := make(chan int)
	go func() {
		g2 := c.RLock()
		defer g2.Unlock()
		done <- g2.Len()
	}()

	select {
	case n := <-done:
		if n != 2 {
			t.Errorf("second reader saw %d elements, want 2", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second shared guard blocked behind the first")
	}
}

func TestWrite(t *testing.T) {
	c := New(3, 1, 2)
	c.Write(func(items []int) []int {
		return append(items[:0], 9)
	})

	if got := c.Snapshot(); !equalInts(got, []int{9}) {
		t.Errorf("Snapshot() = %v, want [9]", got)
	}

	var total int
	c.Read(func(items []int) {
		for _, v := range items {
			total += v
		}
	})
	if total != 9 {
		t.Errorf("Read total = %d, want 9", total)
	}
}
