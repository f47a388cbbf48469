package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/geocoder89/sportsbuddy/internal/domain/registration"
	"github.com/geocoder89/sportsbuddy/internal/domain/user"
	"github.com/geocoder89/sportsbuddy/internal/store"
)

func NewEventsRepo() *Collection[event.Event] {
	return NewCollection(store.CollectionEvents,
		func(e event.Event) string { return e.ID },
		func(e event.Event, field string) (string, bool) {
			switch field {
			case "id":
				return e.ID, true
			case "name":
				return e.Name, true
			case "sport":
				return e.Sport, true
			case "location":
				return e.Location, true
			case "date":
				return e.Date, true
			case "time":
				return e.Time, true
			case "createdBy":
				return e.CreatedBy, true
			case "createdAt":
				return sortableTime(e.CreatedAt), true
			}
			return "", false
		},
	)
}

func NewRegistrationsRepo() *Collection[registration.TeamRegistration] {
	return NewCollection(store.CollectionTeamRegistrations,
		func(r registration.TeamRegistration) string { return r.ID },
		func(r registration.TeamRegistration, field string) (string, bool) {
			switch field {
			case "id":
				return r.ID, true
			case "eventId":
				return r.EventID, true
			case "joinedBy":
				return r.JoinedBy, true
			case "teamName":
				return r.TeamName, true
			case "joinedAt":
				return sortableTime(r.JoinedAt), true
			}
			return "", false
		},
	)
}

func NewCategoriesRepo() *Collection[reference.Category] {
	return NewCollection(store.CollectionCategories,
		func(c reference.Category) string { return c.ID },
		func(c reference.Category, field string) (string, bool) {
			switch field {
			case "id":
				return c.ID, true
			case "name":
				return c.Name, true
			case "createdAt":
				return sortableTime(c.CreatedAt), true
			}
			return "", false
		},
	)
}

func NewCitiesRepo() *Collection[reference.City] {
	return NewCollection(store.CollectionCities,
		func(c reference.City) string { return c.ID },
		func(c reference.City, field string) (string, bool) {
			switch field {
			case "id":
				return c.ID, true
			case "name":
				return c.Name, true
			case "country":
				return c.Country, true
			}
			return "", false
		},
	)
}

func NewAreasRepo() *Collection[reference.Area] {
	return NewCollection(store.CollectionAreas,
		func(a reference.Area) string { return a.ID },
		func(a reference.Area, field string) (string, bool) {
			switch field {
			case "id":
				return a.ID, true
			case "name":
				return a.Name, true
			case "cityId":
				return a.CityID, true
			}
			return "", false
		},
	)
}

// UsersRepo adds the unique email index on top of the plain collection.
type UsersRepo struct {
	*Collection[user.User]
	emailMu sync.Mutex
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		Collection: NewCollection(store.CollectionUsers,
			func(u user.User) string { return u.ID },
			func(u user.User, field string) (string, bool) {
				switch field {
				case "id":
					return u.ID, true
				case "email":
					return strings.ToLower(u.Email), true
				}
				return "", false
			},
		),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	r.emailMu.Lock()
	defer r.emailMu.Unlock()

	existing, err := r.List(ctx, store.Where("email", strings.ToLower(u.Email)))
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: users.email", store.ErrDuplicate)
	}

	return r.Collection.Create(ctx, u)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	found, err := r.List(ctx, store.Where("email", strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return user.User{}, err
	}
	if len(found) == 0 {
		return user.User{}, store.ErrNotFound
	}
	return found[0], nil
}
