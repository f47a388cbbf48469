package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// storedTime truncates to microseconds, the resolution of TIMESTAMPTZ, so a
// created event equals the one read back from the store.
func storedTime(now time.Time) time.Time {
	return now.UTC().Truncate(time.Microsecond)
}

// New builds an event from validated fields.
func New(f Fields, creatorID string, now time.Time) Event {
	f = f.Normalized()

	return Event{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Sport:       f.Sport,
		Location:    f.Location,
		Date:        f.Date,
		Time:        f.Time,
		Description: f.Description,
		CreatedBy:   creatorID,
		CreatedAt:   storedTime(now),
	}
}

// WithFields replaces the user-supplied parts; identity and creation data are kept.
func (e Event) WithFields(f Fields, now time.Time) Event {
	f = f.Normalized()
	updated := storedTime(now)

	e.Name = f.Name
	e.Sport = f.Sport
	e.Location = f.Location
	e.Date = f.Date
	e.Time = f.Time
	e.Description = f.Description
	e.UpdatedAt = &updated

	return e
}

func (f Fields) Normalized() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Sport = strings.TrimSpace(f.Sport)
	f.Location = strings.TrimSpace(f.Location)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Description = strings.TrimSpace(f.Description)
	return f
}
