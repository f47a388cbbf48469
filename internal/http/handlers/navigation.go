package handlers

import (
	"net/http"

	"github.com/geocoder89/sportsbuddy/internal/auth"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/geocoder89/sportsbuddy/internal/navigation"
	"github.com/gin-gonic/gin"
)

// Navigate resolves ?view= against the caller's identity. It runs behind
// OptionalAuth, so an absent or bad token is treated as signed out.
func Navigate(ctx *gin.Context) {
	requested := navigation.ParseView(ctx.Query("view"))

	_, authenticated := middlewares.UserIDFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	view := navigation.Resolve(authenticated, role == auth.RoleAdmin, requested)

	ctx.JSON(http.StatusOK, gin.H{
		"requested":  requested,
		"view":       view,
		"redirected": view != requested,
	})
}
