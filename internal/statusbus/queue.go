package statusbus

import (
	"context"
	"sync"
)

// Sink accepts fanned-out lines. Send reports false once the consumer has
// gone away and will never accept another line.
type Sink interface {
	Send(line string) bool
}

// Queue is an unbounded per-consumer buffer. The bus side never blocks on a
// slow consumer; the consumer side may block in Recv or poll with TryRecv.
type Queue struct {
	name   string
	mu     sync.Mutex
	items  []string
	closed bool
	ended  bool
	notify chan struct{}
}

// NewQueue returns an empty queue for the named consumer.
func NewQueue(name string) *Queue {
	return &Queue{name: name, notify: make(chan struct{}, 1)}
}

// Name returns the consumer name.
func (q *Queue) Name() string { return q.name }

// Send appends line unless the consumer has closed the queue.
func (q *Queue) Send(line string) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, line)
	q.mu.Unlock()
	q.wake()
	return true
}

// TryRecv returns the oldest buffered line without blocking.
func (q *Queue) TryRecv() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Recv blocks until a line is available. It returns false once the bus has
// ended and the buffer is drained, after Close, or when ctx is done.
func (q *Queue) Recv(ctx context.Context) (string, bool) {
	for {
		q.mu.Lock()
		if line, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return line, true
		}
		if q.ended || q.closed {
			q.mu.Unlock()
			return "", false
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", false
		case <-q.notify:
		}
	}
}

// Ended reports whether the bus has stopped producing and the buffer is empty.
func (q *Queue) Ended() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ended && len(q.items) == 0
}

// Close disconnects the consumer. Buffered lines are discarded and later
// sends are refused.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
	q.wake()
}

// Closed reports whether the consumer has disconnected.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) finish() {
	q.mu.Lock()
	q.ended = true
	q.mu.Unlock()
	q.wake()
}

func (q *Queue) popLocked() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	line := q.items[0]
	q.items[0] = ""
	q.items = q.items[1:]
	return line, true
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// FanOut delivers line to every sink that still accepts it. It returns false
// when no sink took the line, including when sinks is empty.
func FanOut(sinks []Sink, line string) bool {
	delivered := false
	for _, sink := range sinks {
		if sink.Send(line) {
			delivered = true
		}
	}
	return delivered
}
