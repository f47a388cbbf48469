package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/auth"
	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/geocoder89/sportsbuddy/internal/http/handlers"
	"github.com/geocoder89/sportsbuddy/internal/http/middlewares"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

type authFixture struct {
	router *gin.Engine
	ring   *observer.Ring
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	clock := clockwork.NewRealClock()
	users := memory.NewUsersRepo()
	provider := auth.NewLocalProvider(users, "let-me-in", clock)
	tokens := auth.NewManager("test-secret", time.Hour, clock)
	revocations := auth.NewRevocations(cache.NewMemory(time.Hour), clock)
	ring := observer.NewRing(50)

	if _, err := provider.EnsureAdmin(context.Background(), "admin@example.com", "admin-password", "Admin"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	h := handlers.NewAuthHandler(provider, tokens, revocations, users, syncObserver{ring})
	mw := middlewares.NewAuthMiddleware(tokens, revocations)

	r := gin.New()
	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/admin/login", h.AdminLogin)
	r.POST("/auth/logout", mw.RequireAuth(), h.Logout)
	r.GET("/auth/me", mw.RequireAuth(), h.Me)

	return authFixture{router: r, ring: ring}
}

// syncObserver writes straight into a sink so tests can read it immediately.
type syncObserver struct{ sink *observer.Ring }

func (o syncObserver) Record(ctx context.Context, level observer.Level, message, action string, details map[string]any) {
	_ = o.sink.Write(ctx, observer.Entry{Level: level, Message: message, Action: action, Details: details})
}

func authed(r http.Handler, method, url, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeToken(t *testing.T, w *httptest.ResponseRecorder) handlers.TokenResponse {
	t.Helper()

	var resp handlers.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal token: %v body=%s", err, w.Body.String())
	}
	if resp.AccessToken == "" {
		t.Fatalf("empty access token: %s", w.Body.String())
	}
	return resp
}

func TestAuthHandler_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantAdmin      bool
	}{
		{
			name:           "user",
			body:           `{"email":"Ada@Example.com","password":"correct-horse","displayName":"Ada"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "admin_with_code",
			body:           `{"email":"ref@example.com","password":"correct-horse","displayName":"Ref","admin":true,"adminCode":"let-me-in"}`,
			wantStatusCode: http.StatusCreated,
			wantAdmin:      true,
		},
		{
			name:           "admin_wrong_code",
			body:           `{"email":"ref@example.com","password":"correct-horse","displayName":"Ref","admin":true,"adminCode":"guess"}`,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "email_taken",
			body:           `{"email":"admin@example.com","password":"correct-horse","displayName":"Again"}`,
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "short_password",
			body:           `{"email":"bob@example.com","password":"short","displayName":"Bob"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			w := doJSON(f.router, http.MethodPost, "/auth/signup", tt.body)
			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				resp := decodeToken(t, w)
				if resp.User.IsAdmin != tt.wantAdmin {
					t.Fatalf("isAdmin = %v, want %v", resp.User.IsAdmin, tt.wantAdmin)
				}
			}
		})
	}
}

func TestAuthHandler_LoginAndAdminLogin(t *testing.T) {
	f := newAuthFixture(t)

	if w := doJSON(f.router, http.MethodPost, "/auth/signup", `{"email":"ada@example.com","password":"correct-horse","displayName":"Ada"}`); w.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name           string
		url            string
		body           string
		wantStatusCode int
	}{
		{name: "user_login", url: "/auth/login", body: `{"email":"ada@example.com","password":"correct-horse"}`, wantStatusCode: http.StatusOK},
		{name: "wrong_password", url: "/auth/login", body: `{"email":"ada@example.com","password":"nope-nope"}`, wantStatusCode: http.StatusUnauthorized},
		{name: "unknown_email", url: "/auth/login", body: `{"email":"who@example.com","password":"correct-horse"}`, wantStatusCode: http.StatusUnauthorized},
		{name: "admin_login_as_user", url: "/auth/admin/login", body: `{"email":"ada@example.com","password":"correct-horse"}`, wantStatusCode: http.StatusForbidden},
		{name: "admin_login", url: "/auth/admin/login", body: `{"email":"admin@example.com","password":"admin-password"}`, wantStatusCode: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(f.router, http.MethodPost, tt.url, tt.body)
			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}

	var sawRejectedAdmin bool
	for _, e := range f.ring.Entries() {
		if e.Action == observer.Failed(handlers.ActionAdminLogin) {
			sawRejectedAdmin = true
		}
	}
	if !sawRejectedAdmin {
		t.Fatalf("expected a failed admin login entry in %+v", f.ring.Entries())
	}
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	f := newAuthFixture(t)

	w := doJSON(f.router, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"admin-password"}`)
	token := decodeToken(t, w).AccessToken

	me := authed(f.router, http.MethodGet, "/auth/me", token)
	if me.Code != http.StatusOK {
		t.Fatalf("me: %d %s", me.Code, me.Body.String())
	}

	var p auth.Principal
	if err := json.Unmarshal(me.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if p.Email != "admin@example.com" || !p.IsAdmin {
		t.Fatalf("unexpected principal %+v", p)
	}

	if w := authed(f.router, http.MethodPost, "/auth/logout", token); w.Code != http.StatusNoContent {
		t.Fatalf("logout: %d %s", w.Code, w.Body.String())
	}

	if w := authed(f.router, http.MethodGet, "/auth/me", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token still accepted: %d", w.Code)
	}
}
