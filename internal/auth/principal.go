// Package auth is the identity adapter: credential checks, access tokens and
// the client-side session that the role router listens to.
package auth

import (
	"github.com/geocoder89/sportsbuddy/internal/domain/user"
)

const (
	RoleAdmin = user.RoleAdmin
	RoleUser  = user.RoleUser
)

// Principal is the authenticated identity. It never carries the password hash.
type Principal struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (p Principal) Role() string {
	if p.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func PrincipalFromUser(u user.User) Principal {
	return Principal{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
	}
}

// PrincipalFromClaims rebuilds the identity carried by a verified token.
func PrincipalFromClaims(c *Claims) Principal {
	return Principal{
		ID:      c.UserID,
		Email:   c.Email,
		IsAdmin: c.IsAdmin(),
	}
}
