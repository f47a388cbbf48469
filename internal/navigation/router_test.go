package navigation

import (
	"context"
	"testing"

	"github.com/geocoder89/sportsbuddy/internal/auth"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		isAdmin       bool
		requested     View
		want          View
	}{
		{name: "anonymous admin request goes home", requested: ViewAdmin, want: ViewHome},
		{name: "anonymous events request goes home", requested: ViewEvents, want: ViewHome},
		{name: "anonymous login allowed", requested: ViewLogin, want: ViewLogin},
		{name: "anonymous admin-login allowed", requested: ViewAdminLogin, want: ViewAdminLogin},
		{name: "anonymous register allowed", requested: ViewRegister, want: ViewRegister},
		{name: "anonymous unknown view goes home", requested: View("settings"), want: ViewHome},
		{name: "admin asking for events lands on admin", authenticated: true, isAdmin: true, requested: ViewEvents, want: ViewAdmin},
		{name: "admin asking for login lands on admin", authenticated: true, isAdmin: true, requested: ViewLogin, want: ViewAdmin},
		{name: "user asking for admin lands on events", authenticated: true, requested: ViewAdmin, want: ViewEvents},
		{name: "user asking for unknown lands on events", authenticated: true, requested: View("nope"), want: ViewEvents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.authenticated, tt.isAdmin, tt.requested); got != tt.want {
				t.Fatalf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransition(t *testing.T) {
	s := Initial()
	if s.View != ViewHome || s.Authenticated {
		t.Fatalf("unexpected initial state: %+v", s)
	}

	s = Transition(s, Navigate(ViewLogin))
	if s.View != ViewLogin {
		t.Fatalf("expected login, got %q", s.View)
	}

	s = Transition(s, AuthChanged(&auth.Principal{ID: "u-1", IsAdmin: true}))
	if s.View != ViewAdmin || !s.IsAdmin {
		t.Fatalf("expected admin after admin sign-in, got %+v", s)
	}

	s = Transition(s, Navigate(ViewEvents))
	if s.View != ViewAdmin {
		t.Fatalf("admin must stay on admin, got %q", s.View)
	}

	s = Transition(s, AuthChanged(nil))
	if s.Authenticated || s.IsAdmin {
		t.Fatalf("expected signed-out state, got %+v", s)
	}
	if s.View != ViewHome {
		t.Fatalf("expected home after sign-out, got %q", s.View)
	}
}

type stubProvider struct{ p auth.Principal }

func (s stubProvider) SignUp(context.Context, auth.SignUpInput) (auth.Principal, error) {
	return s.p, nil
}

func (s stubProvider) SignIn(context.Context, string, string) (auth.Principal, error) {
	return s.p, nil
}

func TestNavigator_FollowsSession(t *testing.T) {
	session := auth.NewSession(stubProvider{p: auth.Principal{ID: "u-1"}})
	nav := NewNavigator(session)
	defer nav.Close()

	if got := nav.Navigate(ViewEvents); got != ViewHome {
		t.Fatalf("anonymous events request: got %q, want home", got)
	}

	if _, err := session.SignIn(context.Background(), "u@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got := nav.State().View; got != ViewEvents {
		t.Fatalf("after sign-in: got %q, want events", got)
	}

	session.SignOut()
	if got := nav.State().View; got != ViewHome {
		t.Fatalf("after sign-out: got %q, want home", got)
	}
}
