// Package navigation decides which top-level view a client may see, given
// whether it is signed in and whether it is an admin.
package navigation

import (
	"sync"

	"github.com/geocoder89/sportsbuddy/internal/auth"
)

type View string

const (
	ViewHome       View = "home"
	ViewLogin      View = "login"
	ViewAdminLogin View = "admin-login"
	ViewRegister   View = "register"
	ViewEvents     View = "events"
	ViewAdmin      View = "admin"
)

var publicViews = map[View]bool{
	ViewHome:       true,
	ViewLogin:      true,
	ViewAdminLogin: true,
	ViewRegister:   true,
}

func ParseView(s string) View {
	return View(s)
}

// Resolve maps a requested view onto the view actually shown. Signed-in
// principals always land on their role's home; anonymous clients may only
// reach the public views and fall back to home otherwise.
func Resolve(authenticated, isAdmin bool, requested View) View {
	if authenticated {
		if isAdmin {
			return ViewAdmin
		}
		return ViewEvents
	}

	if publicViews[requested] {
		return requested
	}
	return ViewHome
}

type State struct {
	Authenticated bool `json:"authenticated"`
	IsAdmin       bool `json:"isAdmin"`
	View          View `json:"view"`
}

func Initial() State {
	return State{View: ViewHome}
}

// Event drives Transition; build one with Navigate or AuthChanged.
type Event struct {
	navigate  *View
	principal *auth.Principal
}

func Navigate(v View) Event {
	return Event{navigate: &v}
}

// AuthChanged reports a new principal; nil means signed out.
func AuthChanged(p *auth.Principal) Event {
	return Event{principal: p}
}

func Transition(s State, e Event) State {
	if e.navigate != nil {
		s.View = Resolve(s.Authenticated, s.IsAdmin, *e.navigate)
		return s
	}

	s.Authenticated = e.principal != nil
	s.IsAdmin = e.principal != nil && e.principal.IsAdmin
	s.View = Resolve(s.Authenticated, s.IsAdmin, s.View)
	return s
}

// Navigator holds the current state of one client and follows its session.
type Navigator struct {
	mu          sync.Mutex
	state       State
	unsubscribe func()
}

// NewNavigator starts at Initial and re-evaluates on every auth change of session.
func NewNavigator(session *auth.Session) *Navigator {
	n := &Navigator{state: Initial()}
	n.unsubscribe = session.OnAuthChange(func(p *auth.Principal) {
		n.apply(AuthChanged(p))
	})
	return n
}

func (n *Navigator) Navigate(v View) View {
	return n.apply(Navigate(v)).View
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

func (n *Navigator) apply(e Event) State {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = Transition(n.state, e)
	return n.state
}
