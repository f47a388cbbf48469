// Package registration lets end users enter a team into an event and gives
// admins per-event views of who signed up.
package registration

import (
	"context"
	"errors"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/domain/registration"
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
	ActionRegister = "REGISTER_TEAM"
	ActionCancel   = "ADMIN_CANCEL_REGISTRATION"
)

type RegistrationsStore interface {
	Create(ctx context.Context, r registration.TeamRegistration) error
	List(ctx context.Context, q store.Query) ([]registration.TeamRegistration, error)
	Delete(ctx context.Context, id string) error
}

// EventGetter is used to confirm the event still exists right before a write.
type EventGetter interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

type Service struct {
	registrations RegistrationsStore
	events        EventGetter
	clock         clockwork.Clock
	obs           observer.Observer
	tracer        trace.Tracer
}

type Option func(*Service)

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithObserver(o observer.Observer) Option {
	return func(s *Service) { s.obs = o }
}

func NewService(registrations RegistrationsStore, events EventGetter, opts ...Option) *Service {
	s := &Service{
		registrations: registrations,
		events:        events,
		clock:         clockwork.NewRealClock(),
		obs:           observer.Nop{},
		tracer:        otel.Tracer("sportsbuddy/registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register enters a team into ev. The stored EventName is copied from ev as
// the caller saw it and is not refreshed if the event is renamed later.
func (s *Service) Register(ctx context.Context, ev event.Event, in registration.Input, joinerID string) (reg registration.TeamRegistration, err error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register", trace.WithAttributes(attribute.String("event.id", ev.ID)))
	defer func() {
		defer span.End()
		details := map[string]any{"eventId": ev.ID}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperr.Kind(err))
			details["error"] = err.Error()
			s.obs.Record(ctx, observer.LevelWarn, "team registration failed", observer.Failed(ActionRegister), details)
			return
		}
		details["registrationId"] = reg.ID
		details["totalMembers"] = reg.TotalMembers
		s.obs.Record(ctx, observer.LevelInfo, "team registered", ActionRegister, details)
	}()

	if err := validation.Check(in); err != nil {
		return registration.TeamRegistration{}, err
	}

	if _, err := s.events.GetByID(ctx, ev.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return registration.TeamRegistration{}, apperr.NotFound("event " + ev.ID)
		}
		return registration.TeamRegistration{}, apperr.Store("get event", err)
	}

	reg = registration.New(in, ev.ID, ev.Name, joinerID, s.clock.Now())

	if err := s.registrations.Create(ctx, reg); err != nil {
		return registration.TeamRegistration{}, apperr.Store("create registration", err)
	}

	return reg, nil
}

// ListAll returns every registration, most recent first.
func (s *Service) ListAll(ctx context.Context) ([]registration.TeamRegistration, error) {
	return s.list(ctx, store.Query{})
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]registration.TeamRegistration, error) {
	return s.list(ctx, store.Where("eventId", eventID))
}

func (s *Service) ListByJoiner(ctx context.Context, joinerID string) ([]registration.TeamRegistration, error) {
	return s.list(ctx, store.Where("joinedBy", joinerID))
}

// Cancel removes a registration. It is an admin operation.
func (s *Service) Cancel(ctx context.Context, id string) (err error) {
	defer func() {
		details := map[string]any{"registrationId": id}
		if err != nil {
			details["error"] = err.Error()
			s.obs.Record(ctx, observer.LevelError, "cancel registration failed", observer.Failed(ActionCancel), details)
			return
		}
		s.obs.Record(ctx, observer.LevelInfo, "registration cancelled", ActionCancel, details)
	}()

	if err := s.registrations.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("registration " + id)
		}
		return apperr.Store("delete registration", err)
	}
	return nil
}

func (s *Service) list(ctx context.Context, q store.Query) ([]registration.TeamRegistration, error) {
	out, err := s.registrations.List(ctx, q.OrderedBy("joinedAt", true))
	if err != nil {
		return nil, apperr.Store("list registrations", err)
	}
	return out, nil
}

// ListForEvent returns the registrations in all that belong to eventID,
// keeping their order.
func ListForEvent(eventID string, all []registration.TeamRegistration) []registration.TeamRegistration {
	out := make([]registration.TeamRegistration, 0)
	for _, r := range all {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

func Count(eventID string, all []registration.TeamRegistration) int {
	n := 0
	for _, r := range all {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

// CountByEvent tallies all by event id, orphans included.
func CountByEvent(all []registration.TeamRegistration) map[string]int {
	out := make(map[string]int)
	for _, r := range all {
		out[r.EventID]++
	}
	return out
}
