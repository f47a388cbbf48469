package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/repo/memory"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	level  observer.Level
	action string
}

type recordingObserver struct {
	mu      sync.Mutex
	entries []recorded
}

func (r *recordingObserver) Record(_ context.Context, level observer.Level, _, action string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, recorded{level: level, action: action})
}

func (r *recordingObserver) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.action)
	}
	return out
}

type failingEvents struct {
	EventsStore
	err error
}

func (f failingEvents) Create(context.Context, event.Event) error { return f.err }

func (f failingEvents) List(context.Context, store.Query) ([]event.Event, error) {
	return nil, f.err
}

func validFields() event.Fields {
	return event.Fields{
		Name:     "5-a-side Cup",
		Sport:    "Football",
		Location: "Hackney Marshes",
		Date:     "2026-08-15",
		Time:     "10:30",
	}
}

func newTestService(t *testing.T) (*Service, *clockwork.FakeClock, *recordingObserver, *memory.Collection[reference.Category]) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	obs := &recordingObserver{}
	cats := memory.NewCategoriesRepo()

	svc := NewService(memory.NewEventsRepo(), cats, WithClock(clock), WithObserver(obs))
	return svc, clock, obs, cats
}

func TestService_CreateRoundTrip(t *testing.T) {
	svc, _, obs, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), "admin-1")
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "admin-1", created.CreatedBy)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), created.CreatedAt)
	assert.Nil(t, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.Equal(t, []string{ActionCreate}, obs.actions())
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, obs, _ := newTestService(t)

	tests := []struct {
		name   string
		mutate func(*event.Fields)
		field  string
	}{
		{name: "blank name", mutate: func(f *event.Fields) { f.Name = "   " }, field: "name"},
		{name: "missing location", mutate: func(f *event.Fields) { f.Location = "" }, field: "location"},
		{name: "bad date", mutate: func(f *event.Fields) { f.Date = "15/08/2026" }, field: "date"},
		{name: "bad time", mutate: func(f *event.Fields) { f.Time = "25:00" }, field: "time"},
		{name: "unknown sport", mutate: func(f *event.Fields) { f.Sport = "Quidditch" }, field: "sport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			_, err := svc.Create(context.Background(), f, "admin-1")
			require.ErrorIs(t, err, apperr.ErrValidation)

			fields := apperr.FieldsOf(err)
			require.NotEmpty(t, fields)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}

	events, err := svc.List(context.Background(), event.AllEvents())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Contains(t, obs.actions(), observer.Failed(ActionCreate))
}

func TestService_CategoryExtendsSports(t *testing.T) {
	svc, clock, _, cats := newTestService(t)
	ctx := context.Background()

	require.NoError(t, cats.Create(ctx, reference.NewCategory(reference.CategoryFields{Name: "Padel"}, clock.Now())))
	require.NoError(t, cats.Create(ctx, reference.NewCategory(reference.CategoryFields{Name: "Tennis"}, clock.Now())))

	sports, err := svc.Sports(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSports, sports[:len(DefaultSports)])
	assert.Equal(t, []string{"Padel"}, sports[len(DefaultSports):])

	f := validFields()
	f.Sport = "Padel"
	_, err = svc.Create(ctx, f, "admin-1")
	require.NoError(t, err)
}

func TestService_UpdateKeepsCreationData(t *testing.T) {
	svc, clock, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), "admin-1")
	require.NoError(t, err)

	clock.Advance(time.Hour)

	name := "Summer Cup"
	updated, err := svc.Update(ctx, created.ID, event.Patch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Summer Cup", updated.Name)
	assert.Equal(t, created.Location, updated.Location)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.CreatedBy, updated.CreatedBy)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, clock.Now().UTC(), *updated.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestService_UpdateErrors(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	name := "x"
	_, err := svc.Update(ctx, "missing", event.Patch{Name: &name})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	created, err := svc.Create(ctx, validFields(), "admin-1")
	require.NoError(t, err)

	bad := "tomorrow"
	_, err = svc.Update(ctx, created.ID, event.Patch{Date: &bad})
	require.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Date, got.Date)
}

func TestService_Delete(t *testing.T) {
	svc, _, obs, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), "admin-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{ActionCreate, ActionDelete, observer.Failed(ActionDelete)}, obs.actions())
}

func TestService_ListScopeIsSubsetOfAll(t *testing.T) {
	svc, clock, _, _ := newTestService(t)
	ctx := context.Background()

	for i, creator := range []string{"admin-1", "admin-2", "admin-1", "admin-3"} {
		f := validFields()
		f.Name = f.Name + " " + string(rune('A'+i))
		_, err := svc.Create(ctx, f, creator)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	all, err := svc.List(ctx, event.AllEvents())
	require.NoError(t, err)
	require.Len(t, all, 4)

	// newest first
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	mine, err := svc.List(ctx, event.CreatedBy("admin-1"))
	require.NoError(t, err)
	require.Len(t, mine, 2)

	ids := make(map[string]bool, len(all))
	for _, e := range all {
		ids[e.ID] = true
	}
	for _, e := range mine {
		assert.Equal(t, "admin-1", e.CreatedBy)
		assert.True(t, ids[e.ID])
	}

	none, err := svc.List(ctx, event.CreatedBy("nobody"))
	require.NoError(t, err)
	assert.Empty(t, none)

	anonymous, err := svc.List(ctx, event.CreatedBy(""))
	require.NoError(t, err)
	assert.Empty(t, anonymous, "an empty owner id must not widen to every event")

	var zero event.Scope
	assert.False(t, zero.IsAll())
}

func TestService_StoreFailures(t *testing.T) {
	boom := errors.New("connection reset")
	obs := &recordingObserver{}
	svc := NewService(failingEvents{err: boom}, nil, WithObserver(obs))

	_, err := svc.Create(context.Background(), validFields(), "admin-1")
	require.ErrorIs(t, err, apperr.ErrStore)
	require.ErrorIs(t, err, boom)

	_, err = svc.List(context.Background(), event.AllEvents())
	require.ErrorIs(t, err, apperr.ErrStore)

	assert.Equal(t, []string{observer.Failed(ActionCreate), observer.Failed(ActionFetch)}, obs.actions())
}
