package panels

import "sync"

// History is a bounded in-memory store of finished request records. When
// full, the oldest record is evicted. It is the only cross-request shared
// state in the toolbar besides the codec registry, and the only one that
// mutates, so it carries its own lock.
type History struct {
	mu      sync.RWMutex
	records []Record
	next    int
	full    bool
}

// NewHistory creates a history retaining at most capacity records.
// Capacity below 1 is clamped to 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{records: make([]Record, capacity)}
}

// Add stores a record, evicting the oldest when the history is full.
func (h *History) Add(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records[h.next] = rec
	h.next++
	if h.next == len(h.records) {
		h.next = 0
		h.full = true
	}
}

// Records returns the stored records, newest first.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := h.next
	if h.full {
		count = len(h.records)
	}

	out := make([]Record, 0, count)
	for i := 1; i <= count; i++ {
		idx := h.next - i
		if idx < 0 {
			idx += len(h.records)
		}
		out = append(out, h.records[idx])
	}
	return out
}

// Get returns the record with the given id, if still retained.
func (h *History) Get(id string) (Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := h.next
	if h.full {
		count = len(h.records)
	}
	for i := 0; i < count; i++ {
		if h.records[i].ID == id {
			return h.records[i], true
		}
	}
	return Record{}, false
}

// Len reports how many records are currently retained.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.full {
		return len(h.records)
	}
	return h.next
}
