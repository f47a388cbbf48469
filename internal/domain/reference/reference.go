// Package reference holds the admin-managed lookup data: sport categories,
// cities and the areas inside them. Each kind has its own schema.
package reference

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type City struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Country   string     `json:"country"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Area.CityName is copied when the area is saved; renaming or deleting the
// city does not touch it.
type Area struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CityID    string     `json:"cityId"`
	CityName  string     `json:"cityName"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type CategoryFields struct {
	Name        string `json:"name" binding:"required,notblank,max=60"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

type CategoryPatch struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=60"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CityFields struct {
	Name    string `json:"name" binding:"required,notblank,max=80"`
	Country string `json:"country" binding:"required,notblank,max=80"`
}

type CityPatch struct {
	Name    *string `json:"name" binding:"omitempty,notblank,max=80"`
	Country *string `json:"country" binding:"omitempty,notblank,max=80"`
}

type AreaFields struct {
	Name   string `json:"name" binding:"required,notblank,max=80"`
	CityID string `json:"cityId" binding:"required,notblank"`
}

type AreaPatch struct {
	Name   *string `json:"name" binding:"omitempty,notblank,max=80"`
	CityID *string `json:"cityId" binding:"omitempty,notblank"`
}

func NewCategory(f CategoryFields, now time.Time) Category {
	return Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		CreatedAt:   stored(now),
	}
}

func NewCity(f CityFields, now time.Time) City {
	return City{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(f.Name),
		Country:   strings.TrimSpace(f.Country),
		CreatedAt: stored(now),
	}
}

func NewArea(f AreaFields, city City, now time.Time) Area {
	return Area{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(f.Name),
		CityID:    city.ID,
		CityName:  city.Name,
		CreatedAt: stored(now),
	}
}

func (p CategoryPatch) Apply(c Category, now time.Time) Category {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		c.Description = strings.TrimSpace(*p.Description)
	}
	c.UpdatedAt = stamp(now)
	return c
}

func (p CityPatch) Apply(c City, now time.Time) City {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Country != nil {
		c.Country = strings.TrimSpace(*p.Country)
	}
	c.UpdatedAt = stamp(now)
	return c
}

// Apply sets the area fields; city is the resolved target when CityID changes.
func (p AreaPatch) Apply(a Area, city *City, now time.Time) Area {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if city != nil {
		a.CityID = city.ID
		a.CityName = city.Name
	}
	a.UpdatedAt = stamp(now)
	return a
}

func stamp(now time.Time) *time.Time {
	t := stored(now)
	return &t
}

// stored truncates to the microsecond resolution of TIMESTAMPTZ.
func stored(now time.Time) time.Time {
	return now.UTC().Truncate(time.Microsecond)
}
