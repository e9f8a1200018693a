package activity

import (
	"sync"
	"time"
)

// Kind identifies what happened to a task.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Entry is one recorded task change.
type Entry struct {
	Kind   Kind      `json:"kind"`
	TaskID string    `json:"taskId"`
	Title  string    `json:"title,omitempty"`
	Status string    `json:"status,omitempty"`
	Fields []string  `json:"fields,omitempty"`
	At     time.Time `json:"at"`
}

// Feed keeps the most recent entries in a fixed-size ring.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewFeed creates a feed holding at most size entries.
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{entries: make([]Entry, size)}
}

// Record appends e, evicting the oldest entry when the feed is full.
func (f *Feed) Record(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Len returns the number of stored entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.len()
}

func (f *Feed) len() int {
	if f.full {
		return len(f.entries)
	}
	return f.next
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (f *Feed) Recent(n int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := f.len()
	if n <= 0 || n > count {
		n = count
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		out = append(out, f.entries[idx])
	}
	return out
}
