package event

import "sync/atomic"

const (
	// QueueSize is the ring capacity, a power of two
	QueueSize = 64
	queueMask = QueueSize - 1
)

// Queue is a lock-free MPSC ring buffer of intents
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK (input goroutine, tests)
//   - Pop/Drain: Single consumer (tick goroutine)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest intents overwritten when full
type Queue struct {
	items     [QueueSize]Intent
	published [QueueSize]atomic.Bool // True = slot fully written
	head      atomic.Uint64          // Read index
	tail      atomic.Uint64          // Write index
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push adds an intent using CAS with the published flags pattern
func (q *Queue) Push(in Intent) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & queueMask

			q.items[idx] = in
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread intents
			currentHead := q.head.Load()
			if nextTail-currentHead > QueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-QueueSize)
			}
			return
		}
	}
}

// Pop removes the oldest intent
// Returns false when empty or when the oldest slot is still being written
func (q *Queue) Pop() (Intent, bool) {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return Intent{}, false
		}

		// Producer lapped the reader, skip to the oldest surviving slot
		if currentTail-currentHead > QueueSize {
			q.head.CompareAndSwap(currentHead, currentTail-QueueSize)
			continue
		}

		idx := currentHead & queueMask
		if !q.published[idx].Load() {
			return Intent{}, false // Writer incomplete
		}

		in := q.items[idx]
		if q.head.CompareAndSwap(currentHead, currentHead+1) {
			q.published[idx].Store(false)
			return in, true
		}
	}
}

// Drain pops everything currently readable in FIFO order
func (q *Queue) Drain() []Intent {
	var out []Intent
	for {
		in, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, in)
	}
}

// Len returns approximate pending intent count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > QueueSize {
		return QueueSize
	}
	return diff
}
