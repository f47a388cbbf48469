package auth

import (
	"context"
	"sync"
)

// Session tracks the signed-in principal of one client and notifies
// subscribers whenever it changes.
type Session struct {
	provider Provider

	mu      sync.Mutex
	current *Principal
	nextID  int
	subs    map[int]func(*Principal)
}

func NewSession(provider Provider) *Session {
	return &Session{
		provider: provider,
		subs:     make(map[int]func(*Principal)),
	}
}

func (s *Session) SignUp(ctx context.Context, in SignUpInput) (Principal, error) {
	p, err := s.provider.SignUp(ctx, in)
	if err != nil {
		return Principal{}, err
	}
	s.set(&p)
	return p, nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) (Principal, error) {
	p, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Principal{}, err
	}
	s.set(&p)
	return p, nil
}

func (s *Session) SignOut() {
	s.set(nil)
}

// Current returns the signed-in principal, or nil.
func (s *Session) Current() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

// OnAuthChange registers cb and immediately calls it with the current
// principal. The returned func removes the subscription.
func (s *Session) OnAuthChange(cb func(*Principal)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = cb
	current := s.current
	s.mu.Unlock()

	cb(copyPrincipal(current))

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) set(p *Principal) {
	s.mu.Lock()
	s.current = copyPrincipal(p)
	subs := make([]func(*Principal), 0, len(s.subs))
	for _, cb := range s.subs {
		subs = append(subs, cb)
	}
	s.mu.Unlock()

	// callbacks run outside the lock so they may call back into the session
	for _, cb := range subs {
		cb(copyPrincipal(p))
	}
}

func copyPrincipal(p *Principal) *Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
