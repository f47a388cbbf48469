package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/actorctx"
	"github.com/geocoder89/sportsbuddy/internal/auth"
	"github.com/geocoder89/sportsbuddy/internal/config"
	"github.com/geocoder89/sportsbuddy/internal/domain/user"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/gin-gonic/gin"
)

const (
	ActionSignUp     = "USER_SIGNUP"
	ActionLogin      = "USER_LOGIN"
	ActionAdminLogin = "ADMIN_LOGIN"
	ActionLogout     = "USER_LOGOUT"
)

type TokenIssuer interface {
	GenerateAccessToken(p auth.Principal) (string, *auth.Claims, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, c *auth.Claims) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthHandler struct {
	provider auth.Provider
	tokens   TokenIssuer
	revoker  TokenRevoker
	users    UserGetter
	obs      observer.Observer
}

func NewAuthHandler(provider auth.Provider, tokens TokenIssuer, revoker TokenRevoker, users UserGetter, obs observer.Observer) *AuthHandler {
	if obs == nil {
		obs = observer.Nop{}
	}
	return &AuthHandler{
		provider: provider,
		tokens:   tokens,
		revoker:  revoker,
		users:    users,
		obs:      obs,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	User        auth.Principal `json:"user"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req auth.SignUpInput

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	p, err := h.provider.SignUp(cctx, req)
	if err != nil {
		h.obs.Record(cctx, observer.LevelWarn, "sign-up failed", observer.Failed(ActionSignUp), map[string]any{"error": err.Error()})
		h.respondAuthError(ctx, err)
		return
	}

	h.obs.Record(actorctx.WithUserID(cctx, p.ID), observer.LevelInfo, "account created", ActionSignUp, map[string]any{"isAdmin": p.IsAdmin})
	h.issue(ctx, http.StatusCreated, p)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	h.login(ctx, false)
}

// AdminLogin only issues a token to admin accounts.
func (h *AuthHandler) AdminLogin(ctx *gin.Context) {
	h.login(ctx, true)
}

func (h *AuthHandler) login(ctx *gin.Context, adminOnly bool) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	action := ActionLogin
	if adminOnly {
		action = ActionAdminLogin
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	p, err := h.provider.SignIn(cctx, req.Email, req.Password)
	if err != nil {
		h.obs.Record(cctx, observer.LevelWarn, "sign-in failed", observer.Failed(action), nil)
		h.respondAuthError(ctx, err)
		return
	}

	actx := actorctx.WithUserID(cctx, p.ID)

	if adminOnly && !p.IsAdmin {
		h.obs.Record(actx, observer.LevelWarn, "non-admin tried the admin sign-in", observer.Failed(action), nil)
		RespondForbidden(ctx, "not_admin", "Access denied: admin account required")
		return
	}

	h.obs.Record(actx, observer.LevelInfo, "signed in", action, nil)
	h.issue(ctx, http.StatusOK, p)
}

// Logout revokes the presented access token until it would have expired.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.revoker.Revoke(cctx, claims); err != nil {
		_ = ctx.Error(err)
		RespondInternal(ctx, "Could not sign out")
		return
	}

	h.obs.Record(cctx, observer.LevelInfo, "signed out", ActionLogout, nil)
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)
	if err != nil {
		RespondServiceError(ctx, storeErr("get user", err), "User")
		return
	}

	ctx.JSON(http.StatusOK, auth.PrincipalFromUser(u))
}

func (h *AuthHandler) issue(ctx *gin.Context, status int, p auth.Principal) {
	token, claims, err := h.tokens.GenerateAccessToken(p)
	if err != nil {
		_ = ctx.Error(err)
		RespondInternal(ctx, "Could not issue token")
		return
	}

	ctx.JSON(status, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        p,
	})
}

func (h *AuthHandler) respondAuthError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailInUse):
		_ = ctx.Error(err)
		RespondError(ctx, http.StatusConflict, "email_in_use", "An account with this email already exists", nil)
	case errors.Is(err, auth.ErrAdminCode):
		_ = ctx.Error(err)
		RespondForbidden(ctx, "admin_code_rejected", "Admin sign-up code rejected")
	case errors.Is(err, auth.ErrInvalidCredentials):
		_ = ctx.Error(err)
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect")
	default:
		RespondServiceError(ctx, err, "User")
	}
}
