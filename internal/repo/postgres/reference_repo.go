package postgres

import (
	"context"

	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoriesRepo

const selectCategories = `SELECT id, name, description, created_at, updated_at FROM sports_categories`

type CategoriesRepo struct {
	base
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "sports_categories",
		collection: store.CollectionCategories,
		columns:    store.Columns{"id": "id", "name": "name", "createdAt": "created_at"},
	}}
}

func (r *CategoriesRepo) Create(ctx context.Context, c reference.Category) error {
	return r.observe("create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO sports_categories (id, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
		)
		return mapErr(err)
	})
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (c reference.Category, err error) {
	err = r.observe("get", func() error {
		c, err = scanCategory(r.pool.QueryRow(ctx, selectCategories+` WHERE id = $1`, id))
		return mapErr(err)
	})
	return c, err
}

func (r *CategoriesRepo) List(ctx context.Context, q store.Query) (out []reference.Category, err error) {
	sql, args, err := r.selectQuery(selectCategories, q)
	if err != nil {
		return nil, err
	}
	err = r.observe("list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, scanCategory)
		return err
	})
	return out, err
}

func (r *CategoriesRepo) Update(ctx context.Context, c reference.Category) error {
	return r.execOne(ctx, "update",
		`UPDATE sports_categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.UpdatedAt,
	)
}

func (r *CategoriesRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func scanCategory(row pgx.Row) (reference.Category, error) {
	var c reference.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CitiesRepo

const selectCities = `SELECT id, name, country, created_at, updated_at FROM cities`

type CitiesRepo struct {
	base
}

func NewCitiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CitiesRepo {
	return &CitiesRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "cities",
		collection: store.CollectionCities,
		columns:    store.Columns{"id": "id", "name": "name", "country": "country"},
	}}
}

func (r *CitiesRepo) Create(ctx context.Context, c reference.City) error {
	return r.observe("create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO cities (id, name, country, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.Name, c.Country, c.CreatedAt, c.UpdatedAt,
		)
		return mapErr(err)
	})
}

func (r *CitiesRepo) GetByID(ctx context.Context, id string) (c reference.City, err error) {
	err = r.observe("get", func() error {
		c, err = scanCity(r.pool.QueryRow(ctx, selectCities+` WHERE id = $1`, id))
		return mapErr(err)
	})
	return c, err
}

func (r *CitiesRepo) List(ctx context.Context, q store.Query) (out []reference.City, err error) {
	sql, args, err := r.selectQuery(selectCities, q)
	if err != nil {
		return nil, err
	}
	err = r.observe("list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, scanCity)
		return err
	})
	return out, err
}

func (r *CitiesRepo) Update(ctx context.Context, c reference.City) error {
	return r.execOne(ctx, "update",
		`UPDATE cities SET name = $2, country = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, c.Country, c.UpdatedAt,
	)
}

func (r *CitiesRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func scanCity(row pgx.Row) (reference.City, error) {
	var c reference.City
	err := row.Scan(&c.ID, &c.Name, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// AreasRepo. city_id has no foreign key: deleting a city leaves its areas.

const selectAreas = `SELECT id, name, city_id, city_name, created_at, updated_at FROM areas`

type AreasRepo struct {
	base
}

func NewAreasRepo(pool *pgxpool.Pool, prom *observability.Prom) *AreasRepo {
	return &AreasRepo{base{
		pool:       pool,
		prom:       prom,
		table:      "areas",
		collection: store.CollectionAreas,
		columns:    store.Columns{"id": "id", "name": "name", "cityId": "city_id"},
	}}
}

func (r *AreasRepo) Create(ctx context.Context, a reference.Area) error {
	return r.observe("create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO areas (id, name, city_id, city_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, a.Name, a.CityID, a.CityName, a.CreatedAt, a.UpdatedAt,
		)
		return mapErr(err)
	})
}

func (r *AreasRepo) GetByID(ctx context.Context, id string) (a reference.Area, err error) {
	err = r.observe("get", func() error {
		a, err = scanArea(r.pool.QueryRow(ctx, selectAreas+` WHERE id = $1`, id))
		return mapErr(err)
	})
	return a, err
}

func (r *AreasRepo) List(ctx context.Context, q store.Query) (out []reference.Area, err error) {
	sql, args, err := r.selectQuery(selectAreas, q)
	if err != nil {
		return nil, err
	}
	err = r.observe("list", func() error {
		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		out, err = collect(rows, scanArea)
		return err
	})
	return out, err
}

func (r *AreasRepo) Update(ctx context.Context, a reference.Area) error {
	return r.execOne(ctx, "update",
		`UPDATE areas SET name = $2, city_id = $3, city_name = $4, updated_at = $5 WHERE id = $1`,
		a.ID, a.Name, a.CityID, a.CityName, a.UpdatedAt,
	)
}

func (r *AreasRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func scanArea(row pgx.Row) (reference.Area, error) {
	var a reference.Area
	err := row.Scan(&a.ID, &a.Name, &a.CityID, &a.CityName, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
