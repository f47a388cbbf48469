package handlers

import (
	"net/http"
	"strconv"

	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/gin-gonic/gin"
)

type ActivityLog interface {
	Entries() []observer.Entry
	Clear()
}

type ActivityHandler struct {
	log ActivityLog
}

func NewActivityHandler(log ActivityLog) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// List returns the retained activity entries, newest first. ?limit= caps the
// page and ?action= keeps one action.
func (h *ActivityHandler) List(ctx *gin.Context) {
	limit := 100
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			RespondBadRequest(ctx, "Invalid query parameters", gin.H{
				"fields": []FieldError{{Field: "limit", Rule: "range", Message: "must be between 1 and 500"}},
			})
			return
		}
		limit = n
	}

	action := ctx.Query("action")

	items := make([]observer.Entry, 0, limit)
	for _, e := range h.log.Entries() {
		if action != "" && e.Action != action {
			continue
		}
		items = append(items, e)
		if len(items) == limit {
			break
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *ActivityHandler) Clear(ctx *gin.Context) {
	h.log.Clear()
	ctx.Status(http.StatusNoContent)
}
