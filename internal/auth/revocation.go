package auth

import (
	"context"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/jonboulle/clockwork"
)

// Revocations remembers logged-out token ids until the token would have
// expired anyway.
type Revocations struct {
	store cache.Store
	clock clockwork.Clock
}

func NewRevocations(store cache.Store, clock clockwork.Clock) *Revocations {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Revocations{store: store, clock: clock}
}

func (r *Revocations) Revoke(ctx context.Context, c *Claims) error {
	ttl := time.Minute
	if c.ExpiresAt != nil {
		ttl = c.ExpiresAt.Time.Sub(r.clock.Now())
	}
	if ttl <= 0 {
		return nil
	}

	return r.store.Set(ctx, cache.RevokedTokenKey(c.JTI), []byte("1"), ttl)
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok, err := r.store.Get(ctx, cache.RevokedTokenKey(jti))
	return ok, err
}
