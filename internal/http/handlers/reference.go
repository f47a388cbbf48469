package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/sportsbuddy/internal/config"
	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"github.com/gin-gonic/gin"
)

type ReferenceService interface {
	CreateCategory(ctx context.Context, f reference.CategoryFields) (reference.Category, error)
	UpdateCategory(ctx context.Context, id string, p reference.CategoryPatch) (reference.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]reference.Category, error)

	CreateCity(ctx context.Context, f reference.CityFields) (reference.City, error)
	UpdateCity(ctx context.Context, id string, p reference.CityPatch) (reference.City, error)
	DeleteCity(ctx context.Context, id string) error
	ListCities(ctx context.Context) ([]reference.City, error)

	CreateArea(ctx context.Context, f reference.AreaFields) (reference.Area, error)
	UpdateArea(ctx context.Context, id string, p reference.AreaPatch) (reference.Area, error)
	DeleteArea(ctx context.Context, id string) error
	ListAreas(ctx context.Context, cityID string) ([]reference.Area, error)
}

// ReferenceHandler serves the admin-managed categories, cities and areas.
type ReferenceHandler struct {
	svc ReferenceService
}

func NewReferenceHandler(svc ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{svc: svc}
}

func (h *ReferenceHandler) ListCategories(ctx *gin.Context) {
	listReference(ctx, h.svc.ListCategories, "Category")
}

func (h *ReferenceHandler) CreateCategory(ctx *gin.Context) {
	createReference(ctx, h.svc.CreateCategory, "Category")
}

func (h *ReferenceHandler) UpdateCategory(ctx *gin.Context) {
	updateReference(ctx, h.svc.UpdateCategory, "Category")
}

func (h *ReferenceHandler) DeleteCategory(ctx *gin.Context) {
	deleteReference(ctx, h.svc.DeleteCategory, "Category")
}

func (h *ReferenceHandler) ListCities(ctx *gin.Context) {
	listReference(ctx, h.svc.ListCities, "City")
}

func (h *ReferenceHandler) CreateCity(ctx *gin.Context) {
	createReference(ctx, h.svc.CreateCity, "City")
}

func (h *ReferenceHandler) UpdateCity(ctx *gin.Context) {
	updateReference(ctx, h.svc.UpdateCity, "City")
}

func (h *ReferenceHandler) DeleteCity(ctx *gin.Context) {
	deleteReference(ctx, h.svc.DeleteCity, "City")
}

// ListAreas lists every area, or only those of ?cityId= when given.
func (h *ReferenceHandler) ListAreas(ctx *gin.Context) {
	cityID := ctx.Query("cityId")

	listReference(ctx, func(c context.Context) ([]reference.Area, error) {
		return h.svc.ListAreas(c, cityID)
	}, "Area")
}

func (h *ReferenceHandler) CreateArea(ctx *gin.Context) {
	createReference(ctx, h.svc.CreateArea, "Area")
}

func (h *ReferenceHandler) UpdateArea(ctx *gin.Context) {
	updateReference(ctx, h.svc.UpdateArea, "Area")
}

func (h *ReferenceHandler) DeleteArea(ctx *gin.Context) {
	deleteReference(ctx, h.svc.DeleteArea, "Area")
}

func listReference[T any](ctx *gin.Context, list func(context.Context) ([]T, error), what string) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	items, err := list(cctx)
	if err != nil {
		RespondServiceError(ctx, err, what)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": nonNil(items),
		"count": len(items),
	})
}

func createReference[F, T any](ctx *gin.Context, create func(context.Context, F) (T, error), what string) {
	var req F

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	item, err := create(cctx, req)
	if err != nil {
		RespondServiceError(ctx, err, what)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

func updateReference[P, T any](ctx *gin.Context, update func(context.Context, string, P) (T, error), what string) {
	id, ok := pathID(ctx, "id", what)
	if !ok {
		return
	}

	var req P

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	item, err := update(cctx, id, req)
	if err != nil {
		RespondServiceError(ctx, err, what)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

func deleteReference(ctx *gin.Context, remove func(context.Context, string) error, what string) {
	id, ok := pathID(ctx, "id", what)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := remove(cctx, id); err != nil {
		RespondServiceError(ctx, err, what)
		return
	}

	ctx.Status(http.StatusNoContent)
}
