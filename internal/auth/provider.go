package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/domain/user"
	"github.com/geocoder89/sportsbuddy/internal/security"
	"github.com/geocoder89/sportsbuddy/internal/store"
	"github.com/geocoder89/sportsbuddy/internal/validation"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrAdminCode          = errors.New("admin sign-up code rejected")
)

type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (Principal, error)
	SignIn(ctx context.Context, email, password string) (Principal, error)
}

type SignUpInput struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"displayName" binding:"required,notblank,max=80"`
	Admin       bool   `json:"admin"`
	AdminCode   string `json:"adminCode" binding:"omitempty,max=200"`
}

type UsersStore interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// LocalProvider checks credentials against the users collection.
type LocalProvider struct {
	users     UsersStore
	adminCode string
	clock     clockwork.Clock
}

func NewLocalProvider(users UsersStore, adminSignupCode string, clock clockwork.Clock) *LocalProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LocalProvider{users: users, adminCode: adminSignupCode, clock: clock}
}

func (p *LocalProvider) SignUp(ctx context.Context, in SignUpInput) (Principal, error) {
	if err := validation.Check(in); err != nil {
		return Principal{}, err
	}

	if in.Admin && !p.adminCodeMatches(in.AdminCode) {
		return Principal{}, apperr.Auth("admin sign-up not permitted", ErrAdminCode)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return Principal{}, apperr.Auth("could not create account", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		IsAdmin:      in.Admin,
		CreatedAt:    p.clock.Now().UTC().Truncate(time.Microsecond),
	}

	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Principal{}, apperr.Auth("email already in use", ErrEmailInUse)
		}
		return Principal{}, apperr.Auth("could not create account", err)
	}

	return PrincipalFromUser(u), nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Principal, error) {
	u, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, apperr.Auth("email or password is incorrect", ErrInvalidCredentials)
		}
		return Principal{}, apperr.Auth("sign-in unavailable", err)
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return Principal{}, apperr.Auth("email or password is incorrect", ErrInvalidCredentials)
	}

	return PrincipalFromUser(u), nil
}

// EnsureAdmin creates the configured admin account unless the email exists.
func (p *LocalProvider) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	_, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return false, err
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		DisplayName:  name,
		IsAdmin:      true,
		CreatedAt:    p.clock.Now().UTC().Truncate(time.Microsecond),
	}

	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (p *LocalProvider) adminCodeMatches(code string) bool {
	if p.adminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.adminCode), []byte(code)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
