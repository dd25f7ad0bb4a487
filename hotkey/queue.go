package hotkey

import "sync"

// eventQueue is an unbounded FIFO of keys. Push never blocks, which keeps
// the interception callback fast no matter how slow the consumer is.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Key
	head   int
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends k. It reports false once the queue is closed.
func (q *eventQueue) Push(k Key) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, k)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// Pop blocks until a key is available. After Close it keeps returning the
// remaining keys and then reports false.
func (q *eventQueue) Pop() (Key, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}
	if q.head == len(q.items) {
		return 0, false
	}
	k := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return k, true
}

func (q *eventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
