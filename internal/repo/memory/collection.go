// Package memory is the in-process store adapter. It backs the tests and the
// API when no database URL is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/store"
)

// FieldFunc returns the comparable value of a named field, or false if the
// collection has no such field.
type FieldFunc[T any] func(item T, field string) (string, bool)

type Collection[T any] struct {
	mu    sync.RWMutex
	name  string
	items map[string]T
	id    func(T) string
	field FieldFunc[T]
}

func NewCollection[T any](name string, id func(T) string, field func(T, string) (string, bool)) *Collection[T] {
	return &Collection[T]{
		name:  name,
		items: make(map[string]T),
		id:    id,
		field: field,
	}
}

func (c *Collection[T]) Create(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := c.id(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; exists {
		return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, c.name, id)
	}
	c.items[id] = item

	return nil
}

func (c *Collection[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()

	if !ok {
		return zero, store.ErrNotFound
	}
	return item, nil
}

func (c *Collection[T]) List(ctx context.Context, q store.Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.checkFields(q); err != nil {
		return nil, err
	}

	c.mu.RLock()
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.matches(item, q.Where) {
			out = append(out, item)
		}
	}
	c.mu.RUnlock()

	c.sort(out, q.OrderBy)

	return out, nil
}

func (c *Collection[T]) Update(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := c.id(item)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return store.ErrNotFound
	}
	c.items[id] = item

	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.items, id)

	return nil
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) checkFields(q store.Query) error {
	var zero T

	for _, f := range q.Where {
		if _, ok := c.field(zero, f.Field); !ok {
			return fmt.Errorf("%w: %s.%s", store.ErrUnknownField, c.name, f.Field)
		}
	}

	if q.OrderBy != nil {
		if _, ok := c.field(zero, q.OrderBy.Field); !ok {
			return fmt.Errorf("%w: %s.%s", store.ErrUnknownField, c.name, q.OrderBy.Field)
		}
	}

	return nil
}

func (c *Collection[T]) matches(item T, where []store.Filter) bool {
	for _, f := range where {
		v, _ := c.field(item, f.Field)
		if v != f.Value {
			return false
		}
	}
	return true
}

// sort orders by the requested field with id as tie-break; without an order
// the result is sorted by id.
func (c *Collection[T]) sort(items []T, order *store.Order) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if order != nil {
			va, _ := c.field(a, order.Field)
			vb, _ := c.field(b, order.Field)

			if va != vb {
				if order.Desc {
					return va > vb
				}
				return va < vb
			}

			if order.Desc {
				return c.id(a) > c.id(b)
			}
		}

		return c.id(a) < c.id(b)
	})
}

// sortableTime renders t with a fixed width so string order equals time order.
func sortableTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}
