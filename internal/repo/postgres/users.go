package postgres

import (
	"context"
	"strings"

	"github.com/geocoder89/sportsbuddy/internal/domain/user"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = store.Columns{
	"id":    "id",
	"email": "email",
}

const selectUsers = `SELECT id, email, password_hash, display_name, is_admin, created_at FROM users`

type UsersRepo struct {
	base
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "users",
		collection: store.CollectionUsers,
		columns:    userColumns,
	}}
}

// Create fails with store.ErrDuplicate when the email is taken.
func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	return r.observe("create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, display_name, is_admin, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, strings.ToLower(u.Email), u.PasswordHash, u.DisplayName, u.IsAdmin, u.CreatedAt,
		)
		return mapErr(err)
	})
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (u user.User, err error) {
	err = r.observe("get", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, selectUsers+` WHERE id = $1`, id))
		return mapErr(err)
	})
	return u, err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = r.observe("get_by_email", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, selectUsers+` WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))))
		return mapErr(err)
	})
	return u, err
}

func (r *UsersRepo) List(ctx context.Context, q store.Query) (out []user.User, err error) {
	sql, args, err := r.selectQuery(selectUsers, q)
	if err != nil {
		return nil, err
	}

	err = r.observe("list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, scanUser)
		return err
	})
	return out, err
}

// Update changes the display name only; role and email are fixed at sign-up.
func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	return r.execOne(ctx, "update", `UPDATE users SET display_name = $2 WHERE id = $1`, u.ID, u.DisplayName)
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.IsAdmin, &u.CreatedAt)
	return u, err
}
