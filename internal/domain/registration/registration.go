package registration

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinMembers = 1
	MaxMembers = 50
)

// TeamRegistration is a team's submission for an event. EventName is copied
// from the event at registration time and is never refreshed afterwards.
type TeamRegistration struct {
	ID           string    `json:"id"`
	TeamName     string    `json:"teamName"`
	TotalMembers int       `json:"totalMembers"`
	PhoneNumber  string    `json:"phoneNumber"`
	EventID      string    `json:"eventId"`
	EventName    string    `json:"eventName"`
	JoinedBy     string    `json:"joinedBy"`
	JoinedAt     time.Time `json:"joinedAt"`
}

type Input struct {
	TeamName     string `json:"teamName" binding:"required,notblank,max=120"`
	TotalMembers int    `json:"totalMembers" binding:"min=1,max=50"`
	PhoneNumber  string `json:"phoneNumber" binding:"required,notblank,max=40"`
}

// New builds a TeamRegistration from validated input. JoinedAt is kept at
// microsecond precision to match the store.
func New(in Input, eventID, eventName, joinerID string, now time.Time) TeamRegistration {
	return TeamRegistration{
		ID:           uuid.NewString(),
		TeamName:     strings.TrimSpace(in.TeamName),
		TotalMembers: in.TotalMembers,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		EventID:      eventID,
		EventName:    eventName,
		JoinedBy:     joinerID,
		JoinedAt:     now.UTC().Truncate(time.Microsecond),
	}
}
