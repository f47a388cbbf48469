// Package app assembles stores and services. cmd/api and the integration
// tests share it so both run the same wiring.
package app

import (
	"context"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/auth"
	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/geocoder89/sportsbuddy/internal/catalog"
	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/geocoder89/sportsbuddy/internal/domain/user"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	refsvc "github.com/geocoder89/sportsbuddy/internal/reference"
	"github.com/geocoder89/sportsbuddy/internal/registration"
	"github.com/geocoder89/sportsbuddy/internal/repo/memory"
	"github.com/geocoder89/sportsbuddy/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

type UsersStore interface {
	auth.UsersStore
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Stores is one adapter's set of collections.
type Stores struct {
	Events        catalog.EventsStore
	Registrations registration.RegistrationsStore
	Users         UsersStore
	Categories    refsvc.Repo[reference.Category]
	Cities        refsvc.Repo[reference.City]
	Areas         refsvc.Repo[reference.Area]
}

func MemoryStores() Stores {
	return Stores{
		Events:        memory.NewEventsRepo(),
		Registrations: memory.NewRegistrationsRepo(),
		Users:         memory.NewUsersRepo(),
		Categories:    memory.NewCategoriesRepo(),
		Cities:        memory.NewCitiesRepo(),
		Areas:         memory.NewAreasRepo(),
	}
}

func PostgresStores(pool *pgxpool.Pool, prom *observability.Prom) Stores {
	return Stores{
		Events:        postgres.NewEventsRepo(pool, prom),
		Registrations: postgres.NewRegistrationsRepo(pool, prom),
		Users:         postgres.NewUsersRepo(pool, prom),
		Categories:    postgres.NewCategoriesRepo(pool, prom),
		Cities:        postgres.NewCitiesRepo(pool, prom),
		Areas:         postgres.NewAreasRepo(pool, prom),
	}
}

type Options struct {
	JWTSecret       string
	AccessTTL       time.Duration
	AdminSignupCode string

	// Cache backs token revocation. Nil uses a process-local cache.
	Cache    cache.Store
	Clock    clockwork.Clock
	Observer observer.Observer
}

type Services struct {
	Catalog       *catalog.Service
	Registrations *registration.Service
	Reference     *refsvc.Service

	Provider    *auth.LocalProvider
	Tokens      *auth.Manager
	Revocations *auth.Revocations
}

func NewServices(st Stores, o Options) Services {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Observer == nil {
		o.Observer = observer.Nop{}
	}
	if o.Cache == nil {
		o.Cache = cache.NewMemory(o.AccessTTL)
	}

	return Services{
		Catalog: catalog.NewService(st.Events, st.Categories,
			catalog.WithClock(o.Clock), catalog.WithObserver(o.Observer)),
		Registrations: registration.NewService(st.Registrations, st.Events,
			registration.WithClock(o.Clock), registration.WithObserver(o.Observer)),
		Reference: refsvc.NewService(st.Categories, st.Cities, st.Areas,
			refsvc.WithClock(o.Clock), refsvc.WithObserver(o.Observer)),

		Provider:    auth.NewLocalProvider(st.Users, o.AdminSignupCode, o.Clock),
		Tokens:      auth.NewManager(o.JWTSecret, o.AccessTTL, o.Clock),
		Revocations: auth.NewRevocations(o.Cache, o.Clock),
	}
}

// Seed creates the configured admin and loads the optional category file.
// It is idempotent across restarts.
func (s Services) Seed(ctx context.Context, adminEmail, adminPassword, adminName, categoriesFile string) (SeedResult, error) {
	var res SeedResult

	created, err := s.Provider.EnsureAdmin(ctx, adminEmail, adminPassword, adminName)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	if categoriesFile == "" {
		return res, nil
	}

	f, err := refsvc.LoadSeedFile(categoriesFile)
	if err != nil {
		return res, err
	}

	res.CategoriesAdded, err = s.Reference.SeedCategories(ctx, f.Categories)
	return res, err
}

type SeedResult struct {
	AdminCreated    bool
	CategoriesAdded int
}
