package subprocess

import (
	"sync"

	"github.com/wagiedev/codex-proto-go/internal/errors"
)

// Queue is the unbounded FIFO between a session and its writer pump.
//
// Push never blocks. Any number of goroutines may push; exactly one goroutine
// (the writer) calls Next.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  [][]byte
	closed bool // sending side closed
	gone   bool // receiver stopped
}

// NewQueue creates an open, empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)

	return q
}

// Push appends one encoded line. It returns errors.ErrSessionClosed if the
// queue was closed or its receiver is gone, in which case data is dropped.
func (q *Queue) Push(data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.gone {
		return errors.ErrSessionClosed
	}

	q.items = append(q.items, data)
	q.cond.Signal()

	return nil
}

// Close closes the sending side. Items already pushed are still delivered by
// Next. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Next blocks until an item is available and returns it. The second result is
// false once the queue is closed and drained.
func (q *Queue) Next() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed && !q.gone {
		q.cond.Wait()
	}

	if q.gone || len(q.items) == 0 {
		return nil, false
	}

	data := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	return data, true
}

// Detach marks the receiver as gone and drops pending items. Subsequent
// pushes fail with errors.ErrSessionClosed.
func (q *Queue) Detach() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.gone = true
	q.items = nil
	q.cond.Broadcast()
}

// Open reports whether pushes are still accepted.
func (q *Queue) Open() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return !q.closed && !q.gone
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}
