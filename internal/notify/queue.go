package notify

import (
	"sync"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
)

const DefaultCapacity = 50

// Queue buffers notifications for one visitor until they are drained. When
// full the oldest notification is dropped.
type Queue struct {
	mu       sync.Mutex
	items    []d.Notification
	capacity int
	dropped  int
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity}
}

func (q *Queue) Notify(n d.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == q.capacity {
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, n)
}

// Drain returns the pending notifications oldest first and empties the queue.
func (q *Queue) Drain() []d.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	if out == nil {
		return []d.Notification{}
	}
	return out
}

// Peek returns the pending notifications without removing them.
func (q *Queue) Peek() []d.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]d.Notification, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
