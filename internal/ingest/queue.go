package ingest

import (
	"sync"
	"time"

	v1 "github.com/nahoc/boundless-ws/internal/domain/order/v1"
)

// Entry is a raw, unvalidated stream frame awaiting processing.
type Entry struct {
	Envelope   *v1.StreamEnvelope
	ReceivedAt time.Time
}

// Queue is a FIFO of raw order frames. It is shared between the stream
// reader and the batch persister, so every operation takes the lock.
type Queue struct {
	mu      sync.Mutex
	entries []*Entry
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an entry to the tail.
func (q *Queue) Push(entry *Entry) {
	q.mu.Lock()
	q.entries = append(q.entries, entry)
	q.mu.Unlock()
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Truncate drops the oldest entries so that at most max remain.
// It returns how many entries were dropped. The producer is not informed.
func (q *Queue) Truncate(max int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < max {
		return 0
	}
	dropped := len(q.entries) - max
	q.entries = append([]*Entry(nil), q.entries[dropped:]...)
	return dropped
}

// Splice removes and returns up to n entries from the head.
func (q *Queue) Splice(n int) []*Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n > len(q.entries) {
		n = len(q.entries)
	}
	batch := make([]*Entry, n)
	copy(batch, q.entries[:n])
	q.entries = q.entries[n:]
	return batch
}

// Clear drops every queued entry.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.entries = nil
	q.mu.Unlock()
}
