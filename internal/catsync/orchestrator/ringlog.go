package orchestrator

import (
	"encoding/json"
	"sync"
)

// ringLog keeps the most recent log lines of the current or last sync run in
// a fixed-capacity ring. It implements io.Writer so a zerolog logger can tee
// into it; each Write is one rendered JSON event. When full, the oldest
// entries are dropped: recent detail wins over completeness.
type ringLog struct {
	mu      sync.Mutex
	entries [][]byte
	next    int
	size    int
}

func newRingLog(capacity int) *ringLog {
	if capacity <= 0 {
		capacity = 256
	}
	return &ringLog{entries: make([][]byte, capacity)}
}

func (r *ringLog) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)

	r.mu.Lock()
	r.entries[r.next] = line
	r.next = (r.next + 1) % len(r.entries)
	if r.size < len(r.entries) {
		r.size++
	}
	r.mu.Unlock()
	return len(p), nil
}

// Reset drops all entries; called when a new run begins.
func (r *ringLog) Reset() {
	r.mu.Lock()
	for i := range r.entries {
		r.entries[i] = nil
	}
	r.next = 0
	r.size = 0
	r.mu.Unlock()
}

// Entries returns the buffered events oldest first.
func (r *ringLog) Entries() []json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]json.RawMessage, 0, r.size)
	start := r.next - r.size
	if start < 0 {
		start += len(r.entries)
	}
	for i := 0; i < r.size; i++ {
		out = append(out, json.RawMessage(r.entries[(start+i)%len(r.entries)]))
	}
	return out
}
