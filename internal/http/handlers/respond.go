package handlers

import (
	"errors"
	"net/http"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	if id := ctx.GetString(middlewares.CtxRequestID); id != "" {
		return id
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusForbidden, code, message, nil)
}

// RespondServiceError maps a service failure onto the error envelope.
// what names the resource for not-found messages, e.g. "Event".
func RespondServiceError(ctx *gin.Context, err error, what string) {
	_ = ctx.Error(err)

	switch {
	case errors.Is(err, apperr.ErrValidation):
		RespondBadRequest(ctx, "Invalid request", gin.H{"fields": apperr.FieldsOf(err)})
	case errors.Is(err, apperr.ErrNotFound):
		RespondNotFound(ctx, what+" not found")
	case errors.Is(err, apperr.ErrAuth):
		RespondUnAuthorized(ctx, "unauthorized", "Authentication failed")
	default:
		RespondInternal(ctx, "Something went wrong, please retry")
	}
}

// storeErr classifies a raw adapter error for handlers that read a store directly.
func storeErr(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(op)
	}
	return apperr.Store(op, err)
}
