package cache

import (
	"strings"
)

const EventsListPrefix = "events:list:v1:"

// EventsListGenerationKey holds the current generation of discovery listings.
// It lives outside EventsListPrefix so DeletePrefix never removes it.
const EventsListGenerationKey = "events:list-gen:v1"

// BuildEventsListKey keys a filtered discovery listing under generation gen.
// sport and date are used as given; callers pass the values the filter
// compares. Text is folded the way the filter folds its needles.
func BuildEventsListKey(gen, text, sport, date string) string {
	t := strings.ToLower(strings.TrimSpace(text))

	return EventsListPrefix + gen +
		":q=" + t +
		":sport=" + sport +
		":date=" + date
}

const revokedTokenPrefix = "auth:revoked:"

func RevokedTokenKey(jti string) string {
	return revokedTokenPrefix + jti
}
