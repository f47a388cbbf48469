// Package postgres is the PostgreSQL store adapter. Every statement is timed
// through observability.Prom when one is configured.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type base struct {
	pool       *pgxpool.Pool
	prom       *observability.Prom
	table      string
	collection string
	columns    store.Columns
}

func (b base) observe(op string, fn func() error) error {
	if b.prom != nil {
		return b.prom.ObserveStore(b.collection+"."+op, fn)
	}
	return fn()
}

// selectQuery appends the WHERE and ORDER BY clauses for q to selectSQL.
// Rows are always ordered, with id as the tie-break.
func (b base) selectQuery(selectSQL string, q store.Query) (string, []any, error) {
	var conds []string
	var args []any

	for i, f := range q.Where {
		col, err := b.columns.Lookup(b.collection, f.Field)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, f.Value)
	}

	query := selectSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	order := "id ASC"
	if q.OrderBy != nil {
		col, err := b.columns.Lookup(b.collection, q.OrderBy.Field)
		if err != nil {
			return "", nil, err
		}

		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		order = fmt.Sprintf("%s %s, id %s", col, dir, dir)
	}

	return query + " ORDER BY " + order, args, nil
}

func (b base) delete(ctx context.Context, id string) error {
	return b.observe("delete", func() error {
		tag, err := b.pool.Exec(ctx, `DELETE FROM `+b.table+` WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// execOne runs an UPDATE and reports ErrNotFound when no row matched.
func (b base) execOne(ctx context.Context, op, sql string, args ...any) error {
	return b.observe(op, func() error {
		tag, err := b.pool.Exec(ctx, sql, args...)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	}
	return err
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
