package observer

import (
	"context"
	"sync"
)

// Ring keeps the most recent entries in memory for the admin activity view.
type Ring struct {
	mu   sync.Mutex
	buf  []Entry
	next int
	full bool
}

func NewRing(size int) *Ring {
	if size <= 0 {
		size = 500
	}
	return &Ring{buf: make([]Entry, size)}
}

func (r *Ring) Write(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Entries returns the retained entries, newest first.
func (r *Ring) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.next
	if r.full {
		n = len(r.buf)
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf = make([]Entry, len(r.buf))
	r.next = 0
	r.full = false
}
