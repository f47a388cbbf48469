// Package worker runs the activity archiver: it drains the observer's NATS
// stream and bulk-writes entries to PostgreSQL.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
)

type ActivityWriter interface {
	InsertActivity(ctx context.Context, entries []observer.Entry) (int64, error)
}

type Config struct {
	FlushInterval time.Duration
	BatchSize     int
	// MaxPending caps entries held across failed flushes; beyond it the
	// oldest are dropped.
	MaxPending    int
	ShutdownGrace time.Duration
	Clock         clockwork.Clock
	Log           *slog.Logger
}

type Archiver struct {
	cfg  Config
	msgs <-chan *nats.Msg
	out  ActivityWriter

	shuttingDown atomic.Bool
	archived     atomic.Int64
	rejected     atomic.Int64
	dropped      atomic.Int64
}

func NewArchiver(cfg Config, msgs <-chan *nats.Msg, out ActivityWriter) *Archiver {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxPending < cfg.BatchSize {
		cfg.MaxPending = cfg.BatchSize * 10
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	return &Archiver{cfg: cfg, msgs: msgs, out: out}
}

// Run consumes until ctx is cancelled or msgs is closed, then flushes what
// it holds within ShutdownGrace.
func (a *Archiver) Run(ctx context.Context) error {
	ticker := a.cfg.Clock.NewTicker(a.cfg.FlushInterval)
	defer ticker.Stop()

	pending := make([]observer.Entry, 0, a.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			a.shuttingDown.Store(true)
			pending = a.drainBuffered(pending)
			return a.final(ctx, pending)

		case msg, ok := <-a.msgs:
			if !ok {
				a.shuttingDown.Store(true)
				return a.final(ctx, pending)
			}

			pending = a.accept(pending, msg)
			if len(pending) >= a.cfg.BatchSize {
				pending = a.flush(ctx, pending)
			}

		case <-ticker.Chan():
			pending = a.flush(ctx, pending)
		}
	}
}

func (a *Archiver) ShuttingDown() bool { return a.shuttingDown.Load() }

func (a *Archiver) Archived() int64 { return a.archived.Load() }

func (a *Archiver) Rejected() int64 { return a.rejected.Load() }

func (a *Archiver) Dropped() int64 { return a.dropped.Load() }

func (a *Archiver) accept(pending []observer.Entry, msg *nats.Msg) []observer.Entry {
	e, err := observer.DecodeEntry(msg.Data)
	if err != nil {
		a.rejected.Add(1)
		a.cfg.Log.Warn("activity entry rejected", "subject", msg.Subject, "err", err)
		return pending
	}
	return append(pending, e)
}

// drainBuffered takes whatever the subscription already delivered without waiting.
func (a *Archiver) drainBuffered(pending []observer.Entry) []observer.Entry {
	for {
		select {
		case msg, ok := <-a.msgs:
			if !ok {
				return pending
			}
			pending = a.accept(pending, msg)
		default:
			return pending
		}
	}
}

// flush writes pending and returns what is left to retry.
func (a *Archiver) flush(ctx context.Context, pending []observer.Entry) []observer.Entry {
	if len(pending) == 0 {
		return pending
	}

	n, err := a.out.InsertActivity(ctx, pending)
	if err != nil {
		a.cfg.Log.Error("activity flush failed", "pending", len(pending), "err", err)

		if over := len(pending) - a.cfg.MaxPending; over > 0 {
			a.dropped.Add(int64(over))
			pending = append(pending[:0], pending[over:]...)
		}
		return pending
	}

	a.archived.Add(n)
	return pending[:0]
}

func (a *Archiver) final(ctx context.Context, pending []observer.Entry) error {
	if len(pending) == 0 {
		return nil
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownGrace)
	defer cancel()

	n, err := a.out.InsertActivity(fctx, pending)
	if err != nil {
		a.dropped.Add(int64(len(pending)))
		return err
	}

	a.archived.Add(n)
	return nil
}
