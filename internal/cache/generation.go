package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const defaultGenerationTTL = 24 * time.Hour

// Generation versions a family of cached entries. Keys embed the current
// generation; Bump moves every reader to a fresh one, so an entry written
// late by a request that read the store before the bump is never served.
type Generation struct {
	store Store
	key   string
	ttl   time.Duration
}

func NewGeneration(store Store, key string, ttl time.Duration) *Generation {
	if ttl <= 0 {
		ttl = defaultGenerationTTL
	}
	return &Generation{store: store, key: key, ttl: ttl}
}

// Current returns the live generation, starting a new one when none is stored.
func (g *Generation) Current(ctx context.Context) (string, error) {
	b, ok, err := g.store.Get(ctx, g.key)
	if err != nil {
		return "", err
	}
	if ok && len(b) > 0 {
		return string(b), nil
	}

	gen := uuid.NewString()
	if err := g.store.Set(ctx, g.key, []byte(gen), g.ttl); err != nil {
		return "", err
	}
	return gen, nil
}

func (g *Generation) Bump(ctx context.Context) error {
	return g.store.Set(ctx, g.key, []byte(uuid.NewString()), g.ttl)
}
