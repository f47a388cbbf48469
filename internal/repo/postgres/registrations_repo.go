package postgres

import (
	"context"

	"github.com/geocoder89/sportsbuddy/internal/domain/registration"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var registrationColumns = store.Columns{
	"id":       "id",
	"eventId":  "event_id",
	"joinedBy": "joined_by",
	"teamName": "team_name",
	"joinedAt": "joined_at",
}

const selectRegistrations = `SELECT id, team_name, total_members, phone_number,
	event_id, event_name, joined_by, joined_at
FROM team_registrations`

// RegistrationsRepo stores team registrations. event_id carries no foreign
// key: registrations outlive the event they were made for.
type RegistrationsRepo struct {
	base
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "team_registrations",
		collection: store.CollectionTeamRegistrations,
		columns:    registrationColumns,
	}}
}

func (r *RegistrationsRepo) Create(ctx context.Context, reg registration.TeamRegistration) error {
	return r.observe("create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO team_registrations (id, team_name, total_members, phone_number,
				event_id, event_name, joined_by, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			reg.ID, reg.TeamName, reg.TotalMembers, reg.PhoneNumber,
			reg.EventID, reg.EventName, reg.JoinedBy, reg.JoinedAt,
		)
		return mapErr(err)
	})
}

func (r *RegistrationsRepo) GetByID(ctx context.Context, id string) (reg registration.TeamRegistration, err error) {
	err = r.observe("get", func() error {
		reg, err = scanRegistration(r.pool.QueryRow(ctx, selectRegistrations+` WHERE id = $1`, id))
		return mapErr(err)
	})
	return reg, err
}

func (r *RegistrationsRepo) List(ctx context.Context, q store.Query) (out []registration.TeamRegistration, err error) {
	sql, args, err := r.selectQuery(selectRegistrations, q)
	if err != nil {
		return nil, err
	}

	err = r.observe("list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, scanRegistration)
		return err
	})
	return out, err
}

// Update rewrites the team details; the event link and join data are fixed.
func (r *RegistrationsRepo) Update(ctx context.Context, reg registration.TeamRegistration) error {
	return r.execOne(ctx, "update",
		`UPDATE team_registrations
			SET team_name = $2,
				total_members = $3,
				phone_number = $4
		WHERE id = $1`,
		reg.ID, reg.TeamName, reg.TotalMembers, reg.PhoneNumber,
	)
}

func (r *RegistrationsRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func scanRegistration(row pgx.Row) (registration.TeamRegistration, error) {
	var reg registration.TeamRegistration
	err := row.Scan(
		&reg.ID,
		&reg.TeamName,
		&reg.TotalMembers,
		&reg.PhoneNumber,
		&reg.EventID,
		&reg.EventName,
		&reg.JoinedBy,
		&reg.JoinedAt,
	)
	return reg, err
}
