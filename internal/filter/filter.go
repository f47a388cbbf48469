// Package filter narrows an event listing by free text, sport and date.
package filter

import (
	"strings"

	"github.com/geocoder89/sportsbuddy/internal/domain/event"
)

// Criteria are conjunctive; an empty field imposes nothing.
type Criteria struct {
	Text  string `form:"q" binding:"omitempty,max=200"`
	Sport string `form:"sport" binding:"omitempty,max=60"`
	Date  string `form:"date" binding:"omitempty,isodate"`

	// extra holds further text needles picked up by And; all must match.
	extra []string
	// never is set when two composed criteria disagree on sport or date.
	never bool
}

// Normalized trims the sport and date a client sent. Stored events carry
// trimmed values, so this is the form Match and cache keys must both use.
func (c Criteria) Normalized() Criteria {
	c.Sport = strings.TrimSpace(c.Sport)
	c.Date = strings.TrimSpace(c.Date)
	return c
}

func (c Criteria) IsEmpty() bool {
	return !c.never && len(c.needles()) == 0 && c.Sport == "" && c.Date == ""
}

// And composes c with o so that Apply(Apply(xs, c), o) == Apply(xs, c.And(o)).
// Sport and date are exact matches, so two different non-empty values can
// never both hold and the result matches nothing. Text needles accumulate.
func (c Criteria) And(o Criteria) Criteria {
	out := Criteria{never: c.never || o.never}

	var ok bool
	if out.Sport, ok = both(c.Sport, o.Sport); !ok {
		out.never = true
	}
	if out.Date, ok = both(c.Date, o.Date); !ok {
		out.never = true
	}

	needles := append(c.needles(), o.needles()...)
	if len(needles) > 0 {
		out.Text = needles[0]
		out.extra = needles[1:]
	}

	return out
}

func (c Criteria) Match(e event.Event) bool {
	if c.never {
		return false
	}
	if c.Sport != "" && e.Sport != c.Sport {
		return false
	}
	if c.Date != "" && e.Date != c.Date {
		return false
	}
	for _, q := range c.needles() {
		if !matchText(e, q) {
			return false
		}
	}
	return true
}

// Apply returns the events matching c in their input order.
func Apply(events []event.Event, c Criteria) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if c.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

func both(a, b string) (string, bool) {
	switch {
	case a == "":
		return b, true
	case b == "" || a == b:
		return a, true
	default:
		return "", false
	}
}

func (c Criteria) needles() []string {
	out := make([]string, 0, 1+len(c.extra))
	for _, t := range append([]string{c.Text}, c.extra...) {
		if q := strings.ToLower(strings.TrimSpace(t)); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// matchText is a case-insensitive substring test over name, location and description.
func matchText(e event.Event, q string) bool {
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Location), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}
