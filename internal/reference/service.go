// Package reference manages the lookup data admins maintain alongside events:
// sport categories, cities and areas. Each kind is validated against its own
// request schema.
package reference

import (
	"context"
	"errors"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/geocoder89/sportsbuddy/internal/validation"
	"github.com/jonboulle/clockwork"
)

// Repo is the store contract for one reference collection.
type Repo[T any] interface {
	Create(ctx context.Context, item T) error
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context, q store.Query) ([]T, error)
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	categories Repo[reference.Category]
	cities     Repo[reference.City]
	areas      Repo[reference.Area]
	clock      clockwork.Clock
	obs        observer.Observer
}

type Option func(*Service)

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithObserver(o observer.Observer) Option {
	return func(s *Service) { s.obs = o }
}

func NewService(categories Repo[reference.Category], cities Repo[reference.City], areas Repo[reference.Area], opts ...Option) *Service {
	s := &Service{
		categories: categories,
		cities:     cities,
		areas:      areas,
		clock:      clockwork.NewRealClock(),
		obs:        observer.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories

func (s *Service) CreateCategory(ctx context.Context, f reference.CategoryFields) (reference.Category, error) {
	if err := validation.Check(f); err != nil {
		return reference.Category{}, err
	}

	c := reference.NewCategory(f, s.clock.Now())
	if err := s.categories.Create(ctx, c); err != nil {
		return reference.Category{}, s.fail(ctx, "ADMIN_CREATE_CATEGORY", c.ID, apperr.Store("create category", err))
	}

	s.ok(ctx, "ADMIN_CREATE_CATEGORY", c.ID)
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, p reference.CategoryPatch) (reference.Category, error) {
	if err := validation.Check(p); err != nil {
		return reference.Category{}, err
	}

	current, err := get(ctx, s.categories, "category", id)
	if err != nil {
		return reference.Category{}, err
	}

	c := p.Apply(current, s.clock.Now())
	if err := update(ctx, s.categories, "category", id, c); err != nil {
		return reference.Category{}, s.fail(ctx, "ADMIN_UPDATE_CATEGORY", id, err)
	}

	s.ok(ctx, "ADMIN_UPDATE_CATEGORY", id)
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := remove(ctx, s.categories, "category", id); err != nil {
		return s.fail(ctx, "ADMIN_DELETE_CATEGORY", id, err)
	}
	s.ok(ctx, "ADMIN_DELETE_CATEGORY", id)
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]reference.Category, error) {
	return list(ctx, s.categories, "categories")
}

// SeedCategories creates each named category that does not exist yet.
func (s *Service) SeedCategories(ctx context.Context, seed []reference.CategoryFields) (int, error) {
	existing, err := s.ListCategories(ctx)
	if err != nil {
		return 0, err
	}

	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Name] = true
	}

	created := 0
	for _, f := range seed {
		f.Name = trim(f.Name)
		if have[f.Name] {
			continue
		}
		if _, err := s.CreateCategory(ctx, f); err != nil {
			return created, err
		}
		have[f.Name] = true
		created++
	}
	return created, nil
}

// Cities

func (s *Service) CreateCity(ctx context.Context, f reference.CityFields) (reference.City, error) {
	if err := validation.Check(f); err != nil {
		return reference.City{}, err
	}

	c := reference.NewCity(f, s.clock.Now())
	if err := s.cities.Create(ctx, c); err != nil {
		return reference.City{}, s.fail(ctx, "ADMIN_CREATE_CITY", c.ID, apperr.Store("create city", err))
	}

	s.ok(ctx, "ADMIN_CREATE_CITY", c.ID)
	return c, nil
}

func (s *Service) UpdateCity(ctx context.Context, id string, p reference.CityPatch) (reference.City, error) {
	if err := validation.Check(p); err != nil {
		return reference.City{}, err
	}

	current, err := get(ctx, s.cities, "city", id)
	if err != nil {
		return reference.City{}, err
	}

	c := p.Apply(current, s.clock.Now())
	if err := update(ctx, s.cities, "city", id, c); err != nil {
		return reference.City{}, s.fail(ctx, "ADMIN_UPDATE_CITY", id, err)
	}

	s.ok(ctx, "ADMIN_UPDATE_CITY", id)
	return c, nil
}

// DeleteCity leaves areas of the city untouched; they keep their copied CityName.
func (s *Service) DeleteCity(ctx context.Context, id string) error {
	if err := remove(ctx, s.cities, "city", id); err != nil {
		return s.fail(ctx, "ADMIN_DELETE_CITY", id, err)
	}
	s.ok(ctx, "ADMIN_DELETE_CITY", id)
	return nil
}

func (s *Service) ListCities(ctx context.Context) ([]reference.City, error) {
	return list(ctx, s.cities, "cities")
}

// Areas

// CreateArea requires the city to exist now; its name is copied onto the area.
func (s *Service) CreateArea(ctx context.Context, f reference.AreaFields) (reference.Area, error) {
	if err := validation.Check(f); err != nil {
		return reference.Area{}, err
	}

	city, err := s.cityFor(ctx, f.CityID)
	if err != nil {
		return reference.Area{}, err
	}

	a := reference.NewArea(f, city, s.clock.Now())
	if err := s.areas.Create(ctx, a); err != nil {
		return reference.Area{}, s.fail(ctx, "ADMIN_CREATE_AREA", a.ID, apperr.Store("create area", err))
	}

	s.ok(ctx, "ADMIN_CREATE_AREA", a.ID)
	return a, nil
}

func (s *Service) UpdateArea(ctx context.Context, id string, p reference.AreaPatch) (reference.Area, error) {
	if err := validation.Check(p); err != nil {
		return reference.Area{}, err
	}

	current, err := get(ctx, s.areas, "area", id)
	if err != nil {
		return reference.Area{}, err
	}

	var city *reference.City
	if p.CityID != nil && trim(*p.CityID) != current.CityID {
		c, err := s.cityFor(ctx, *p.CityID)
		if err != nil {
			return reference.Area{}, err
		}
		city = &c
	}

	a := p.Apply(current, city, s.clock.Now())
	if err := update(ctx, s.areas, "area", id, a); err != nil {
		return reference.Area{}, s.fail(ctx, "ADMIN_UPDATE_AREA", id, err)
	}

	s.ok(ctx, "ADMIN_UPDATE_AREA", id)
	return a, nil
}

func (s *Service) DeleteArea(ctx context.Context, id string) error {
	if err := remove(ctx, s.areas, "area", id); err != nil {
		return s.fail(ctx, "ADMIN_DELETE_AREA", id, err)
	}
	s.ok(ctx, "ADMIN_DELETE_AREA", id)
	return nil
}

// ListAreas returns all areas, or only those of cityID when it is set.
func (s *Service) ListAreas(ctx context.Context, cityID string) ([]reference.Area, error) {
	q := store.Query{}
	if cityID != "" {
		q = store.Where("cityId", cityID)
	}

	out, err := s.areas.List(ctx, q.OrderedBy("name", false))
	if err != nil {
		return nil, apperr.Store("list areas", err)
	}
	return out, nil
}

// cityFor resolves the city an area points at. A missing city is a
// validation failure on cityId rather than a 404 for the area itself.
func (s *Service) cityFor(ctx context.Context, cityID string) (reference.City, error) {
	city, err := s.cities.GetByID(ctx, trim(cityID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return reference.City{}, apperr.Invalid("cityId", "exists", "city does not exist")
		}
		return reference.City{}, apperr.Store("get city", err)
	}
	return city, nil
}

func (s *Service) ok(ctx context.Context, action, id string) {
	s.obs.Record(ctx, observer.LevelInfo, action, action, map[string]any{"id": id})
}

func (s *Service) fail(ctx context.Context, action, id string, err error) error {
	s.obs.Record(ctx, observer.LevelError, action+" failed", observer.Failed(action), map[string]any{
		"id":    id,
		"error": err.Error(),
	})
	return err
}

func get[T any](ctx context.Context, r Repo[T], what, id string) (T, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		var zero T
		if errors.Is(err, store.ErrNotFound) {
			return zero, apperr.NotFound(what + " " + id)
		}
		return zero, apperr.Store("get "+what, err)
	}
	return item, nil
}

func update[T any](ctx context.Context, r Repo[T], what, id string, item T) error {
	if err := r.Update(ctx, item); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(what + " " + id)
		}
		return apperr.Store("update "+what, err)
	}
	return nil
}

func remove[T any](ctx context.Context, r Repo[T], what, id string) error {
	if err := r.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(what + " " + id)
		}
		return apperr.Store("delete "+what, err)
	}
	return nil
}

func list[T any](ctx context.Context, r Repo[T], what string) ([]T, error) {
	out, err := r.List(ctx, store.Query{}.OrderedBy("name", false))
	if err != nil {
		return nil, apperr.Store("list "+what, err)
	}
	return out, nil
}
