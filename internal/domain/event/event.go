package event

import (
	"time"
)

type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Sport       string     `json:"sport"`
	Location    string     `json:"location"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Fields are the user-supplied parts of an event.
type Fields struct {
	Name        string `json:"name" binding:"required,notblank,max=120"`
	Sport       string `json:"sport" binding:"required,notblank,max=60"`
	Location    string `json:"location" binding:"required,notblank,max=200"`
	Date        string `json:"date" binding:"required,isodate"`
	Time        string `json:"time" binding:"required,hhmm"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=120"`
	Sport       *string `json:"sport" binding:"omitempty,notblank,max=60"`
	Location    *string `json:"location" binding:"omitempty,notblank,max=200"`
	Date        *string `json:"date" binding:"omitempty,isodate"`
	Time        *string `json:"time" binding:"omitempty,hhmm"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// Scope selects which events a listing returns. Only AllEvents lists
// everything; an owner scope with an empty id matches no event.
type Scope struct {
	all   bool
	owner string
}

func AllEvents() Scope { return Scope{all: true} }

func CreatedBy(principalID string) Scope { return Scope{owner: principalID} }

func (s Scope) IsAll() bool { return s.all }

// Owner is the creator id an owner scope narrows to.
func (s Scope) Owner() string { return s.owner }

func (e Event) Fields() Fields {
	return Fields{
		Name:        e.Name,
		Sport:       e.Sport,
		Location:    e.Location,
		Date:        e.Date,
		Time:        e.Time,
		Description: e.Description,
	}
}

// Apply merges the set fields of p into f.
func (p Patch) Apply(f Fields) Fields {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Sport != nil {
		f.Sport = *p.Sport
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.Date != nil {
		f.Date = *p.Date
	}
	if p.Time != nil {
		f.Time = *p.Time
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	return f
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Sport == nil && p.Location == nil &&
		p.Date == nil && p.Time == nil && p.Description == nil
}
