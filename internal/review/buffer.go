// Package review keeps the most recent flagged verdicts in memory so the
// admin dashboard can show "what just got flagged" without a store
// round-trip. The durable record lives in the audit log; this is a bounded
// hot window over it.
package review

import "sync"

// MaxEntries is the number of recent flagged verdicts retained.
const MaxEntries = 50

// Entry is one flagged verdict in the review window.
type Entry struct {
	CommentID    string   `json:"comment_id,omitempty"`
	AuthorID     string   `json:"author_id"`
	Action       string   `json:"action"`
	Severity     string   `json:"severity"`
	FlaggedTerms []string `json:"flagged_terms"`
	Ts           int64    `json:"ts"`
}

// Buffer stores the last MaxEntries flagged verdicts. It is goroutine-safe
// and uses a ring buffer internally.
type Buffer struct {
	mu    sync.RWMutex
	items []Entry
	pos   int
	count int
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		items: make([]Entry, MaxEntries),
	}
}

// Add records a flagged verdict. If the buffer is full, the oldest entry is
// overwritten.
func (b *Buffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.pos] = e
	b.pos = (b.pos + 1) % MaxEntries
	if b.count < MaxEntries {
		b.count++
	}
}

// Recent returns the retained verdicts in chronological order (oldest
// first). Returns an empty slice when nothing has been flagged yet.
func (b *Buffer) Recent() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]Entry, b.count)
	// The oldest entry is at position (pos - count) mod MaxEntries.
	start := (b.pos - b.count + MaxEntries) % MaxEntries
	for i := 0; i < b.count; i++ {
		result[i] = b.items[(start+i)%MaxEntries]
	}
	return result
}
