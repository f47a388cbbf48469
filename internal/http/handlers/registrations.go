package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/sportsbuddy/internal/config"
	"github.com/geocoder89/sportsbuddy/internal/domain/event"
	"github.com/geocoder89/sportsbuddy/internal/domain/registration"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type EventGetter interface {
	Get(ctx context.Context, id string) (event.Event, error)
}

type TeamRegistrar interface {
	Register(ctx context.Context, ev event.Event, in registration.Input, joinerID string) (registration.TeamRegistration, error)
	ListAll(ctx context.Context) ([]registration.TeamRegistration, error)
	ListByEvent(ctx context.Context, eventID string) ([]registration.TeamRegistration, error)
	ListByJoiner(ctx context.Context, joinerID string) ([]registration.TeamRegistration, error)
	Cancel(ctx context.Context, id string) error
}

type RegistrationHandler struct {
	events EventGetter
	regs   TeamRegistrar
}

func NewRegistrationHandler(events EventGetter, regs TeamRegistrar) *RegistrationHandler {
	return &RegistrationHandler{events: events, regs: regs}
}

func (h *RegistrationHandler) Register(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	var req registration.Input

	if !BindJSON(ctx, &req) {
		return
	}

	// attach the userId to request.
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	ev, err := h.events.Get(cctx, eventID)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	reg, err := h.regs.Register(cctx, ev, req, userID)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

func (h *RegistrationHandler) ListForEvent(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "id", "event")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	regs, err := h.regs.ListByEvent(cctx, eventID)
	if err != nil {
		RespondServiceError(ctx, err, "Event")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"eventId":       eventID,
		"count":         len(regs),
		"registrations": nonNil(regs),
	})
}

func (h *RegistrationHandler) ListAll(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	regs, err := h.regs.ListAll(cctx)
	if err != nil {
		RespondServiceError(ctx, err, "Registration")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"count":         len(regs),
		"registrations": nonNil(regs),
	})
}

// ListMine returns the caller's own team registrations.
func (h *RegistrationHandler) ListMine(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	regs, err := h.regs.ListByJoiner(cctx, userID)
	if err != nil {
		RespondServiceError(ctx, err, "Registration")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"count":         len(regs),
		"registrations": nonNil(regs),
	})
}

func (h *RegistrationHandler) Cancel(ctx *gin.Context) {
	regID, ok := pathID(ctx, "registrationId", "registration")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.regs.Cancel(cctx, regID); err != nil {
		RespondServiceError(ctx, err, "Registration")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
