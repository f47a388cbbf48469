package observer

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type flakySink struct {
	err   error
	calls int
}

func (s *flakySink) Write(context.Context, Entry) error {
	s.calls++
	return s.err
}

func TestProtected_OpensAndRecovers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &flakySink{err: errors.New("nats: connection closed")}

	var transitions []string
	p := NewProtected(inner, ProtectedConfig{
		Trip:     2,
		Cooldown: time.Minute,
		Clock:    clock,
		OnStateChange: func(from, to BreakerState) {
			transitions = append(transitions, string(from)+">"+string(to))
		},
	})
	ctx := context.Background()

	_ = p.Write(ctx, Entry{})
	_ = p.Write(ctx, Entry{})
	if p.State() != "open" {
		t.Fatalf("state = %s, want open", p.State())
	}

	if err := p.Write(ctx, Entry{}); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker should fail fast, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner called %d times, want 2", inner.calls)
	}

	// a failed trial reopens
	clock.Advance(time.Minute)
	_ = p.Write(ctx, Entry{})
	if p.State() != "open" || inner.calls != 3 {
		t.Fatalf("after failed trial: state %s calls %d", p.State(), inner.calls)
	}

	// a successful trial closes
	inner.err = nil
	clock.Advance(time.Minute)
	if err := p.Write(ctx, Entry{}); err != nil {
		t.Fatalf("trial write: %v", err)
	}
	if p.State() != BreakerClosed {
		t.Fatalf("state = %s, want closed", p.State())
	}

	want := []string{
		"closed>open",
		"open>half_open", "half_open>open",
		"open>half_open", "half_open>closed",
	}
	if !reflect.DeepEqual(transitions, want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
}
