package event

import (
	"sync/atomic"
)

// DefaultQueueSize is the capacity used when none is configured
const DefaultQueueSize = 2048

// Queue is a bounded lock-free MPSC ring carrying custom events from background tasks
// Thread-Safety:
//   - Push: lock-free CAS, multiple producers OK
//   - Pop: single consumer (runtime loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Push reports false and the event is dropped, queued events are never overwritten
type Queue struct {
	events    []Custom
	published []atomic.Bool // True = slot fully written
	mask      uint64
	size      uint64
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
	ready     chan struct{}
}

// NewQueue creates a queue holding at least size events, rounded up to a power of two
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}
	return &Queue{
		events:    make([]Custom, n),
		published: make([]atomic.Bool, n),
		mask:      n - 1,
		size:      n,
		ready:     make(chan struct{}, 1),
	}
}

// Push appends an event, safe for concurrent producers
// Returns false when the queue is full
func (q *Queue) Push(ev Custom) bool {
	for {
		currentTail := q.tail.Load()
		if currentTail-q.head.Load() >= q.size {
			return false
		}
		idx := currentTail & q.mask
		// Slot still held by an unconsumed event from the previous lap
		if q.published[idx].Load() {
			return false
		}

		if q.tail.CompareAndSwap(currentTail, currentTail+1) {
			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write
			q.signal()
			return true
		}
	}
}

// Pop removes the oldest fully written event
// Single consumer only; re-signals Ready while more events remain
func (q *Queue) Pop() (Custom, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Custom{}, false
	}
	idx := head & q.mask
	if !q.published[idx].Load() {
		// Writer incomplete, it signals once published
		return Custom{}, false
	}

	ev := q.events[idx]
	q.events[idx] = Custom{}
	q.published[idx].Store(false)
	q.head.Store(head + 1)

	if q.Len() > 0 {
		q.signal()
	}
	return ev, true
}

// Ready fires when at least one event may be available
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns approximate pending event count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the capacity
func (q *Queue) Cap() int {
	return int(q.size)
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
