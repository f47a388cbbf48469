package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/geocoder89/sportsbuddy/internal/config"
	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/domain/registration"
	"github.com/geocoder89/sportsbuddy/internal/filter"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	regsvc "github.com/geocoder89/sportsbuddy/internal/registration"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const storeTimeout = 3 * time.Second

type EventCatalog interface {
	Create(ctx context.Context, f event.Fields, creatorID string) (event.Event, error)
	Update(ctx context.Context, id string, p event.Patch) (event.Event, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (event.Event, error)
	List(ctx context.Context, scope event.Scope) ([]event.Event, error)
	Sports(ctx context.Context) ([]string, error)
}

type RegistrationLister interface {
	ListAll(ctx context.Context) ([]registration.TeamRegistration, error)
}

type EventsHandler struct {
	catalog  EventCatalog
	regs     RegistrationLister
	cache    cache.Store
	lists    *cache.Generation
	cacheTTL time.Duration
	prom     *observability.Prom
}

// NewEventsHandler wires the event endpoints. listCache may be nil, which
// serves every discovery listing from the store.
func NewEventsHandler(catalog EventCatalog, regs RegistrationLister, listCache cache.Store, cacheTTL time.Duration, prom *observability.Prom) *EventsHandler {
	h := &EventsHandler{
		catalog:  catalog,
		regs:     regs,
		cache:    listCache,
		cacheTTL: cacheTTL,
		prom:     prom,
	}
	if listCache != nil {
		h.lists = cache.NewGeneration(listCache, cache.EventsListGenerationKey, 0)
	}
	return h
}

// AdminEvent is an event row in the admin listing with its team count.
type AdminEvent struct {
	event.Event
	Registrations int `json:"registrations"`
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.Fields

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	ev, err := h.catalog.Create(cctx, req, userID)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	h.invalidateLists(ctx)
	ctx.JSON(http.StatusCreated, ev)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	var req event.Patch

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	ev, err := h.catalog.Update(cctx, id, req)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	h.invalidateLists(ctx)
	ctx.JSON(http.StatusOK, ev)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.catalog.Delete(cctx, id); err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	h.invalidateLists(ctx)
	ctx.Status(http.StatusNoContent)
}

func (h *EventsHandler) GetEventById(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	ev, err := h.catalog.Get(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, ev)
}

// ListEvents is the discovery listing: every event, narrowed by q, sport and date.
func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	var criteria filter.Criteria

	if !BindQuery(ctx, &criteria) {
		return
	}

	criteria = criteria.Normalized()

	// key stays empty when the cache is off or its generation is unreadable
	var key string
	if h.cache != nil {
		gen, err := h.lists.Current(ctx.Request.Context())
		if err != nil {
			_ = ctx.Error(err)
		} else {
			key = cache.BuildEventsListKey(gen, criteria.Text, criteria.Sport, criteria.Date)
		}
	}

	if key != "" {
		body, hit, err := h.cache.Get(ctx.Request.Context(), key)
		if err == nil && hit {
			h.prom.CacheLookup(true)
			ctx.Header("X-Cache", "HIT")
			RespondJSONBytesWithETag(ctx, http.StatusOK, body)
			return
		}
		h.prom.CacheLookup(false)
		ctx.Header("X-Cache", "MISS")
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	events, err := h.catalog.List(cctx, event.AllEvents())
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	items := nonNil(filter.Apply(events, criteria))

	body, err := json.Marshal(gin.H{
		"items": items,
		"count": len(items),
	})
	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	if key != "" {
		if err := h.cache.Set(cctx, key, body, h.cacheTTL); err != nil {
			_ = ctx.Error(err)
		}
	}

	RespondJSONBytesWithETag(ctx, http.StatusOK, body)
}

// ListAdminEvents lists events for the admin dashboard. scope=mine narrows
// to the caller's own events; each row carries its registration count.
func (h *EventsHandler) ListAdminEvents(ctx *gin.Context) {
	scope := event.AllEvents()

	switch ctx.DefaultQuery("scope", "all") {
	case "all":
	case "mine":
		userID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
			return
		}
		scope = event.CreatedBy(userID)
	default:
		RespondBadRequest(ctx, "Invalid query parameters", gin.H{
			"fields": []FieldError{{Field: "scope", Rule: "oneof", Param: "all mine", Message: "must be one of all, mine"}},
		})
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	events, err := h.catalog.List(cctx, scope)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	regs, err := h.regs.ListAll(cctx)
	if err != nil {
		RespondServiceError(ctx, err, "Registration")
		return
	}

	counts := regsvc.CountByEvent(regs)
	items := make([]AdminEvent, 0, len(events))
	for _, ev := range events {
		items = append(items, AdminEvent{Event: ev, Registrations: counts[ev.ID]})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *EventsHandler) ListSports(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	sports, err := h.catalog.Sports(cctx)
	if err != nil {
		RespondServiceError(ctx, err, "Sport")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"items": sports})
}

// invalidateLists moves discovery listings to a new generation, then drops
// the old entries. Failures are attached to the request for the access log.
func (h *EventsHandler) invalidateLists(ctx *gin.Context) {
	if h.cache == nil {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.lists.Bump(cctx); err != nil {
		_ = ctx.Error(fmt.Errorf("bump events list generation: %w", err))
	}
	if err := h.cache.DeletePrefix(cctx, cache.EventsListPrefix); err != nil {
		_ = ctx.Error(fmt.Errorf("invalidate events lists: %w", err))
	}
}

func pathID(ctx *gin.Context, param, what string) (string, bool) {
	id := ctx.Param(param)

	if _, err := uuid.Parse(id); err != nil {
		RespondBadRequest(ctx, "Invalid id", gin.H{
			"fields": []FieldError{{Field: param, Rule: "uuid", Message: what + " id must be a valid UUID"}},
		})
		return "", false
	}

	return id, true
}
