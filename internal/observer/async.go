package observer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Async queues entries on a buffered channel and fans them out to its sinks
// from a single goroutine. A full buffer drops the entry.
type Async struct {
	mu     sync.RWMutex
	closed bool
	ch     chan queued
	sinks  []Sink
	done   chan struct{}

	log       *slog.Logger
	onDropped func()
}

type queued struct {
	ctx   context.Context
	entry Entry
}

type Option func(*Async)

// WithDropCounter is called once per dropped entry.
func WithDropCounter(fn func()) Option {
	return func(a *Async) { a.onDropped = fn }
}

// WithErrorLog receives sink failures.
func WithErrorLog(log *slog.Logger) Option {
	return func(a *Async) { a.log = log }
}

func NewAsync(buffer int, sinks []Sink, opts ...Option) *Async {
	if buffer <= 0 {
		buffer = 256
	}

	a := &Async{
		ch:    make(chan queued, buffer),
		sinks: sinks,
		done:  make(chan struct{}),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	go a.run()

	return a
}

func (a *Async) Record(ctx context.Context, level Level, message, action string, details map[string]any) {
	e := newEntry(ctx, level, message, action, details, time.Now())

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.dropped()
		return
	}

	// the caller's cancellation must not cancel the sink writes
	select {
	case a.ch <- queued{ctx: context.WithoutCancel(ctx), entry: e}:
	default:
		a.dropped()
	}
}

// Close stops accepting entries and waits for the queue to drain or ctx to end.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.ch)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) run() {
	defer close(a.done)

	for q := range a.ch {
		for _, s := range a.sinks {
			if err := s.Write(q.ctx, q.entry); err != nil {
				a.log.Warn("observer sink write failed", "action", q.entry.Action, "err", err)
			}
		}
	}
}

func (a *Async) dropped() {
	if a.onDropped != nil {
		a.onDropped()
	}
}
