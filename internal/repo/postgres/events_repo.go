package postgres

import (
	"context"

	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var eventColumns = store.Columns{
	"id":        "id",
	"name":      "name",
	"sport":     "sport",
	"location":  "location",
	"date":      "event_date",
	"time":      "event_time",
	"createdBy": "created_by",
	"createdAt": "created_at",
}

const selectEvents = `SELECT id, name, sport, location, event_date, event_time,
	description, created_by, created_at, updated_at
FROM events`

const updateEvent = `UPDATE events
	SET name = $2,
		sport = $3,
		location = $4,
		event_date = $5,
		event_time = $6,
		description = $7,
		updated_at = $8
WHERE id = $1`

type EventsRepo struct {
	base
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "events",
		collection: store.CollectionEvents,
		columns:    eventColumns,
	}}
}

func (r *EventsRepo) Create(ctx context.Context, e event.Event) error {
	return r.observe("create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO events (id, name, sport, location, event_date, event_time,
				description, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			e.ID, e.Name, e.Sport, e.Location, e.Date, e.Time,
			e.Description, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
		)
		return mapErr(err)
	})
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (e event.Event, err error) {
	err = r.observe("get", func() error {
		e, err = scanEvent(r.pool.QueryRow(ctx, selectEvents+` WHERE id = $1`, id))
		return mapErr(err)
	})
	return e, err
}

func (r *EventsRepo) List(ctx context.Context, q store.Query) (out []event.Event, err error) {
	sql, args, err := r.selectQuery(selectEvents, q)
	if err != nil {
		return nil, err
	}

	err = r.observe("list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, scanEvent)
		return err
	})
	return out, err
}

// Update rewrites the user-supplied columns only. created_by and created_at
// are never part of the statement.
func (r *EventsRepo) Update(ctx context.Context, e event.Event) error {
	return r.execOne(ctx, "update", updateEvent,
		e.ID, e.Name, e.Sport, e.Location, e.Date, e.Time, e.Description, e.UpdatedAt,
	)
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Sport,
		&e.Location,
		&e.Date,
		&e.Time,
		&e.Description,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}
