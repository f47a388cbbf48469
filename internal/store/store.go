// Package store defines the collection contract shared by the storage adapters.
//
// Each collection supports create, get, list (equality filters plus a single
// ordering field), update and delete. Adapters report a missing id with
// ErrNotFound and a filter or order on an unsupported field with
// ErrUnknownField; any other error is an I/O failure.
package store

import (
	"errors"
	"fmt"
)

// Collection names, shared by every adapter.
const (
	CollectionEvents            = "events"
	CollectionTeamRegistrations = "teamRegistrations"
	CollectionUsers             = "users"
	CollectionCategories        = "sportsCategories"
	CollectionCities            = "cities"
	CollectionAreas             = "areas"
	CollectionActivity          = "activity"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnknownField = errors.New("unknown field")
	ErrDuplicate    = errors.New("duplicate document")
)

type Filter struct {
	Field string
	Value string
}

type Order struct {
	Field string
	Desc  bool
}

type Query struct {
	Where   []Filter
	OrderBy *Order
}

func Where(field, value string) Query {
	return Query{Where: []Filter{{Field: field, Value: value}}}
}

func (q Query) And(field, value string) Query {
	where := make([]Filter, 0, len(q.Where)+1)
	where = append(where, q.Where...)
	q.Where = append(where, Filter{Field: field, Value: value})
	return q
}

func (q Query) OrderedBy(field string, desc bool) Query {
	q.OrderBy = &Order{Field: field, Desc: desc}
	return q
}

// Columns maps the JSON field names of a collection onto adapter-specific names.
type Columns map[string]string

func (c Columns) Lookup(collection, field string) (string, error) {
	col, ok := c[field]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, collection, field)
	}
	return col, nil
}
