package observer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("activity sink circuit open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

type ProtectedConfig struct {
	// WriteTimeout bounds each write to the wrapped sink.
	WriteTimeout time.Duration
	// Trip is the run of consecutive failures that opens the circuit.
	Trip int
	// Cooldown is how long an open circuit refuses writes.
	Cooldown time.Duration
	// Trials is how many writes a half-open circuit lets through at once.
	Trials int
	Clock  clockwork.Clock
	// OnStateChange, if set, is called outside the lock after each transition.
	OnStateChange func(from, to BreakerState)
}

// Protected guards a remote sink such as NATS: once it keeps failing,
// activity entries are refused immediately until a cooldown has passed.
type Protected struct {
	inner Sink
	cfg   ProtectedConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	trials   int
}

func NewProtected(inner Sink, cfg ProtectedConfig) *Protected {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Second
	}
	if cfg.Trip <= 0 {
		cfg.Trip = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	return &Protected{inner: inner, cfg: cfg, state: BreakerClosed}
}

func (p *Protected) Write(ctx context.Context, e Entry) error {
	trial, ok := p.admit()
	if !ok {
		return ErrCircuitOpen
	}

	wctx, cancel := context.WithTimeout(ctx, p.cfg.WriteTimeout)
	defer cancel()

	err := p.inner.Write(wctx, e)
	p.settle(trial, err)
	return err
}

func (p *Protected) State() BreakerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// admit reports whether a write may proceed and whether it is a half-open trial.
func (p *Protected) admit() (trial, ok bool) {
	p.mu.Lock()
	from := p.state

	switch p.state {
	case BreakerClosed:
		ok = true
	case BreakerOpen:
		if p.cfg.Clock.Since(p.openedAt) >= p.cfg.Cooldown {
			p.state = BreakerHalfOpen
			p.trials = 1
			trial, ok = true, true
		}
	case BreakerHalfOpen:
		if p.trials < p.cfg.Trials {
			p.trials++
			trial, ok = true, true
		}
	}

	to := p.state
	p.mu.Unlock()

	p.notify(from, to)
	return trial, ok
}

func (p *Protected) settle(trial bool, err error) {
	p.mu.Lock()
	from := p.state

	if trial && p.trials > 0 {
		p.trials--
	}

	switch {
	case err == nil:
		p.failures = 0
		p.state = BreakerClosed
	case trial:
		p.open()
	default:
		p.failures++
		if p.failures >= p.cfg.Trip {
			p.open()
		}
	}

	to := p.state
	p.mu.Unlock()

	p.notify(from, to)
}

// open must be called with mu held.
func (p *Protected) open() {
	p.state = BreakerOpen
	p.openedAt = p.cfg.Clock.Now()
	p.trials = 0
}

func (p *Protected) notify(from, to BreakerState) {
	if from != to && p.cfg.OnStateChange != nil {
		p.cfg.OnStateChange(from, to)
	}
}
