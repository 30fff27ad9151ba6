// Package timerwheel implements the idle-connection deadline structure used
// by each worker reactor: an ordered set of (deadline, id) pairs with O(log n)
// insert/remove via a binary heap, plus an id->callback map so a fired
// deadline can be turned into a connection teardown without the reactor
// needing to track timer handles itself.
package timerwheel

import (
	"container/heap"
	"sync"
	"time"
)

// ID identifies a single scheduled timer entry.
type ID uint64

type entry struct {
	deadline time.Time
	id       ID
	index    int // position in the heap, maintained by heap.Interface
}

type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Wheel is a thread-safe ordered multiset of (deadline, id) pairs. Callbacks
// registered via Add are invoked by Tick, always outside the wheel's
// internal lock so a callback is free to call Remove or Add reentrantly
// without deadlocking.
type Wheel struct {
	mu        sync.Mutex
	heap      entryHeap
	indices   map[ID]*entry
	callbacks map[ID]func()
	nextID    ID
}

// New returns an empty timer wheel.
func New() *Wheel {
	return &Wheel{
		indices:   make(map[ID]*entry),
		callbacks: make(map[ID]func()),
	}
}

// Add schedules callback to fire expire after now and returns its id.
func (w *Wheel) Add(callback func(), expire time.Duration) ID {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	e := &entry{deadline: time.Now().Add(expire), id: id}
	heap.Push(&w.heap, e)
	w.indices[id] = e
	w.callbacks[id] = callback
	return id
}

// Reset moves id's deadline to now+expire. A no-op if id is unknown (already
// fired or removed) -- callers that reset a timer racing with Tick must
// tolerate this.
func (w *Wheel) Reset(id ID, expire time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.indices[id]
	if !ok {
		return
	}
	e.deadline = time.Now().Add(expire)
	heap.Fix(&w.heap, e.index)
}

// Remove erases id's entry and callback. A no-op if id is unknown.
func (w *Wheel) Remove(id ID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.indices[id]
	if !ok {
		return
	}
	heap.Remove(&w.heap, e.index)
	delete(w.indices, id)
	delete(w.callbacks, id)
}

// Tick drains every entry whose deadline has passed, invokes their callbacks
// outside the lock, and returns the duration until the next pending entry,
// or -1 if the wheel is now empty.
func (w *Wheel) Tick() time.Duration {
	now := time.Now()

	w.mu.Lock()
	var fired []func()
	for w.heap.Len() > 0 && !w.heap[0].deadline.After(now) {
		e := heap.Pop(&w.heap).(*entry)
		if cb, ok := w.callbacks[e.id]; ok {
			fired = append(fired, cb)
			delete(w.callbacks, e.id)
		}
		delete(w.indices, e.id)
	}

	var next time.Duration = -1
	if w.heap.Len() > 0 {
		next = w.heap[0].deadline.Sub(now)
		if next < 0 {
			next = 0
		}
	}
	w.mu.Unlock()

	for _, cb := range fired {
		cb()
	}
	return next
}

// Len reports the number of live entries.
func (w *Wheel) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.heap.Len()
}
