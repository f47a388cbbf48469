package integration__test

import (
	"net/http"
	"testing"
)

func TestRoleGating(t *testing.T) {
	a := setupTestApp(t)

	adminToken := a.login(t, "/auth/admin/login", adminEmail, adminPassword)
	userToken := a.signUp(t, map[string]any{
		"email": "player@example.com", "password": "correct-horse", "displayName": "Player",
	})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "anonymous_cannot_browse_events", method: http.MethodGet, path: "/events", want: http.StatusUnauthorized},
		{name: "user_browses_events", method: http.MethodGet, path: "/events", token: userToken, want: http.StatusOK},
		{name: "user_cannot_open_dashboard", method: http.MethodGet, path: "/admin/events", token: userToken, want: http.StatusForbidden},
		{name: "user_cannot_read_activity", method: http.MethodGet, path: "/admin/activity", token: userToken, want: http.StatusForbidden},
		{name: "admin_opens_dashboard", method: http.MethodGet, path: "/admin/events", token: adminToken, want: http.StatusOK},
		{name: "anyone_reads_sports", method: http.MethodGet, path: "/sports", want: http.StatusOK},
		{name: "bad_token", method: http.MethodGet, path: "/events", token: "not-a-jwt", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			a.expect(t, a.do(t, tt.method, tt.path, tt.token, nil), tt.want, nil)
		})
	}
}

func TestAdminSignUpAndAdminLogin(t *testing.T) {
	a := setupTestApp(t)

	// wrong code is refused
	a.expect(t, a.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email": "ref@example.com", "password": "correct-horse", "displayName": "Ref",
		"admin": true, "adminCode": "guess",
	}), http.StatusForbidden, nil)

	a.signUp(t, map[string]any{
		"email": "ref@example.com", "password": "correct-horse", "displayName": "Ref",
		"admin": true, "adminCode": signupCode,
	})
	a.login(t, "/auth/admin/login", "ref@example.com", "correct-horse")

	// a regular account cannot use the admin sign-in
	a.signUp(t, map[string]any{"email": "fan@example.com", "password": "correct-horse", "displayName": "Fan"})

	var apiErr apiErrorResponse
	a.expect(t, a.do(t, http.MethodPost, "/auth/admin/login", "", map[string]string{
		"email": "fan@example.com", "password": "correct-horse",
	}), http.StatusForbidden, &apiErr)
	if apiErr.Error.Code != "not_admin" {
		t.Fatalf("code = %q", apiErr.Error.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	a := setupTestApp(t)

	token := a.signUp(t, map[string]any{"email": "bye@example.com", "password": "correct-horse", "displayName": "Bye"})

	a.expect(t, a.do(t, http.MethodGet, "/auth/me", token, nil), http.StatusOK, nil)
	a.expect(t, a.do(t, http.MethodPost, "/auth/logout", token, nil), http.StatusNoContent, nil)
	a.expect(t, a.do(t, http.MethodGet, "/auth/me", token, nil), http.StatusUnauthorized, nil)
}

func TestNavigateFollowsIdentity(t *testing.T) {
	a := setupTestApp(t)
	adminToken := a.login(t, "/auth/admin/login", adminEmail, adminPassword)

	var resp struct {
		View       string `json:"view"`
		Redirected bool   `json:"redirected"`
	}

	a.expect(t, a.do(t, http.MethodGet, "/navigate?view=events", "", nil), http.StatusOK, &resp)
	if resp.View != "home" || !resp.Redirected {
		t.Fatalf("anonymous: %+v", resp)
	}

	a.expect(t, a.do(t, http.MethodGet, "/navigate?view=login", adminToken, nil), http.StatusOK, &resp)
	if resp.View != "admin" || !resp.Redirected {
		t.Fatalf("admin: %+v", resp)
	}
}
