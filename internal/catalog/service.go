// Package catalog is the admin-facing event service: create, edit, delete and
// list events, and report the sports an event may be filed under.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/geocoder89/sportsbuddy/internal/validation"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	ActionCreate = "ADMIN_CREATE_EVENT"
	ActionUpdate = "ADMIN_UPDATE_EVENT"
	ActionDelete = "ADMIN_DELETE_EVENT"
	ActionFetch  = "FETCH_EVENTS"
)

// DefaultSports are always selectable, ahead of admin-managed categories.
var DefaultSports = []string{
	"Football",
	"Basketball",
	"Tennis",
	"Soccer",
	"Baseball",
	"Volleyball",
	"Cricket",
	"Badminton",
	"Swimming",
	"Running",
	"Cycling",
}

type EventsStore interface {
	Create(ctx context.Context, e event.Event) error
	GetByID(ctx context.Context, id string) (event.Event, error)
	List(ctx context.Context, q store.Query) ([]event.Event, error)
	Update(ctx context.Context, e event.Event) error
	Delete(ctx context.Context, id string) error
}

type CategoriesLister interface {
	List(ctx context.Context, q store.Query) ([]reference.Category, error)
}

type Service struct {
	events     EventsStore
	categories CategoriesLister
	clock      clockwork.Clock
	obs        observer.Observer
	tracer     trace.Tracer
}

type Option func(*Service)

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithObserver(o observer.Observer) Option {
	return func(s *Service) { s.obs = o }
}

// NewService builds the catalog. categories may be nil, leaving only DefaultSports.
func NewService(events EventsStore, categories CategoriesLister, opts ...Option) *Service {
	s := &Service{
		events:     events,
		categories: categories,
		clock:      clockwork.NewRealClock(),
		obs:        observer.Nop{},
		tracer:     otel.Tracer("sportsbuddy/catalog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, f event.Fields, creatorID string) (ev event.Event, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Create")
	defer func() { s.finish(ctx, span, ActionCreate, eventDetails(ev.ID), err) }()

	f = f.Normalized()
	if err := s.validate(ctx, f); err != nil {
		return event.Event{}, err
	}

	ev = event.New(f, creatorID, s.clock.Now())

	if err := s.events.Create(ctx, ev); err != nil {
		return event.Event{}, apperr.Store("create event", err)
	}

	return ev, nil
}

// Update merges the set fields of p into the stored event. Concurrent edits
// are last-write-wins.
func (s *Service) Update(ctx context.Context, id string, p event.Patch) (ev event.Event, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Update", trace.WithAttributes(attribute.String("event.id", id)))
	defer func() { s.finish(ctx, span, ActionUpdate, eventDetails(id), err) }()

	if err := validation.Check(p); err != nil {
		return event.Event{}, err
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return event.Event{}, err
	}

	merged := p.Apply(current.Fields()).Normalized()
	if err := s.validate(ctx, merged); err != nil {
		return event.Event{}, err
	}

	ev = current.WithFields(merged, s.clock.Now())

	if err := s.events.Update(ctx, ev); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return event.Event{}, apperr.NotFound("event " + id)
		}
		return event.Event{}, apperr.Store("update event", err)
	}

	return ev, nil
}

// Delete removes the event. Registrations referencing it are left in place.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Delete", trace.WithAttributes(attribute.String("event.id", id)))
	defer func() { s.finish(ctx, span, ActionDelete, eventDetails(id), err) }()

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("event " + id)
		}
		return apperr.Store("delete event", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (event.Event, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Get", trace.WithAttributes(attribute.String("event.id", id)))
	defer span.End()

	ev, err := s.get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, apperr.Kind(err))
	}
	return ev, err
}

// List returns the events in scope, newest first.
func (s *Service) List(ctx context.Context, scope event.Scope) (out []event.Event, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.List", trace.WithAttributes(attribute.Bool("scope.all", scope.IsAll())))
	defer func() {
		span.SetAttributes(attribute.Int("events.count", len(out)))
		s.finish(ctx, span, ActionFetch, map[string]any{"scope": scopeName(scope), "count": len(out)}, err)
	}()

	q := store.Query{}
	if !scope.IsAll() {
		q = store.Where("createdBy", scope.Owner())
	}

	out, err = s.events.List(ctx, q.OrderedBy("createdAt", true))
	if err != nil {
		return nil, apperr.Store("list events", err)
	}

	return out, nil
}

// Sports returns DefaultSports followed by admin-managed category names,
// without duplicates.
func (s *Service) Sports(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(DefaultSports))
	seen := make(map[string]struct{}, len(DefaultSports))

	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, name := range DefaultSports {
		add(name)
	}

	if s.categories == nil {
		return out, nil
	}

	cats, err := s.categories.List(ctx, store.Query{}.OrderedBy("name", false))
	if err != nil {
		return nil, apperr.Store("list categories", err)
	}
	for _, c := range cats {
		add(c.Name)
	}

	return out, nil
}

func (s *Service) get(ctx context.Context, id string) (event.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return event.Event{}, apperr.NotFound("event " + id)
		}
		return event.Event{}, apperr.Store("get event", err)
	}
	return ev, nil
}

func (s *Service) validate(ctx context.Context, f event.Fields) error {
	if err := validation.Check(f); err != nil {
		return err
	}

	sports, err := s.Sports(ctx)
	if err != nil {
		return err
	}
	for _, sport := range sports {
		if sport == f.Sport {
			return nil
		}
	}

	return apperr.Invalid("sport", "oneof", fmt.Sprintf("unknown sport %q", f.Sport))
}

func (s *Service) finish(ctx context.Context, span trace.Span, action string, details map[string]any, err error) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Kind(err))
		details["error"] = err.Error()
		details["kind"] = apperr.Kind(err)
		s.obs.Record(ctx, observer.LevelError, action+" failed", observer.Failed(action), details)
		return
	}

	s.obs.Record(ctx, observer.LevelInfo, action, action, details)
}

func eventDetails(id string) map[string]any {
	details := map[string]any{}
	if id != "" {
		details["eventId"] = id
	}
	return details
}

func scopeName(scope event.Scope) string {
	if scope.IsAll() {
		return "all"
	}
	return "mine"
}
