// Package queue implements the bounded FIFO of in-flight slots between
// producers and the worker pool. The queue is a pure FIFO: no capacity
// check happens inside Enqueue, by design (spec §4.3) — the drop-policy
// decision is concentrated in the producer facade so the queue stays a
// single, simple, always-correct data structure.
//
// Workers block on a sync.Cond bound to the same mutex that guards the
// FIFO, grounded on the condition-variable worker-wakeup pattern in
// asynczap's background type (the one complete example in this pack of a
// Go async log writer gated by sync.Cond rather than a channel).
package queue

import (
	"sync"

	"github.com/hoastyle/logger/pkg/pool"
)

// Queue is a mutex-and-condvar-guarded FIFO of pool slots.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []*pool.Slot
	capacity int
	shutdown bool
}

// New creates a queue with the given advisory capacity. Capacity is never
// enforced by the queue itself; it exists so callers (and tests) can read
// it back via Capacity().
func New(capacity int) *Queue {
	q := &Queue{
		items:    make([]*pool.Slot, 0, capacity),
		capacity: capacity,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Capacity returns the configured capacity.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Enqueue appends slot to the tail and wakes exactly one waiter.
func (q *Queue) Enqueue(slot *pool.Slot) {
	q.mu.Lock()
	q.items = append(q.items, slot)
	q.mu.Unlock()
	q.notEmpty.Signal()
}

// Len returns the current FIFO length under the mutex. Outside the mutex
// the value is advisory only, exactly as spec §4.3 describes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// DrainBatch pops up to max elements from the head of the FIFO and returns
// them, in FIFO order. It never blocks and may return an empty slice.
// max <= 0 means unbounded (used for the final teardown drain).
func (q *Queue) DrainBatch(max int) []*pool.Slot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drainLocked(max)
}

func (q *Queue) drainLocked(max int) []*pool.Slot {
	n := len(q.items)
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}
	batch := make([]*pool.Slot, n)
	copy(batch, q.items[:n])
	q.items = q.items[n:]
	return batch
}

// Wait blocks the calling worker until shutdown is requested, the FIFO has
// reached batchSize, or it is non-empty and at least half of capacity —
// the early-wake-on-half-full rule from spec §4.4 step 2. It returns the
// current shutdown flag. The caller must not hold the queue lock.
func (q *Queue) Wait(batchSize int) (shutdown bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.wakeConditionLocked(batchSize) {
		q.notEmpty.Wait()
	}
	return q.shutdown
}

func (q *Queue) wakeConditionLocked(batchSize int) bool {
	n := len(q.items)
	if q.shutdown {
		return true
	}
	if n >= batchSize {
		return true
	}
	if n > 0 && q.capacity > 0 && n >= q.capacity/2 {
		return true
	}
	return false
}

// Shutdown sets the shutdown flag and wakes every waiting worker.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
	q.notEmpty.Broadcast()
}

// IsShutdown reports the current shutdown flag.
func (q *Queue) IsShutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown
}
