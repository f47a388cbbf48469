package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/sportsbuddy/internal/apperr"
	"github.com/geocoder89/sportsbuddy/internal/repo/memory"
)

func TestLocalProvider_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := NewLocalProvider(memory.NewUsersRepo(), "", nil)

	created, err := p.SignUp(ctx, SignUpInput{
		Email:       "  Ana@Example.com ",
		Password:    "correct-horse",
		DisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if created.IsAdmin {
		t.Fatal("expected a regular user")
	}
	if created.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}

	got, err := p.SignIn(ctx, "ANA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected id %q, got %q", created.ID, got.ID)
	}
}

func TestLocalProvider_Failures(t *testing.T) {
	ctx := context.Background()
	p := NewLocalProvider(memory.NewUsersRepo(), "let-me-in", nil)

	base := SignUpInput{Email: "bo@example.com", Password: "password-1", DisplayName: "Bo"}
	if _, err := p.SignUp(ctx, base); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	tests := []struct {
		name    string
		run     func() error
		wantErr error
		wantVia error
	}{
		{
			name: "duplicate email",
			run: func() error {
				_, err := p.SignUp(ctx, base)
				return err
			},
			wantErr: apperr.ErrAuth,
			wantVia: ErrEmailInUse,
		},
		{
			name: "admin without code",
			run: func() error {
				_, err := p.SignUp(ctx, SignUpInput{Email: "c@example.com", Password: "password-1", DisplayName: "C", Admin: true})
				return err
			},
			wantErr: apperr.ErrAuth,
			wantVia: ErrAdminCode,
		},
		{
			name: "wrong password",
			run: func() error {
				_, err := p.SignIn(ctx, "bo@example.com", "nope")
				return err
			},
			wantErr: apperr.ErrAuth,
			wantVia: ErrInvalidCredentials,
		},
		{
			name: "unknown email",
			run: func() error {
				_, err := p.SignIn(ctx, "ghost@example.com", "password-1")
				return err
			},
			wantErr: apperr.ErrAuth,
			wantVia: ErrInvalidCredentials,
		},
		{
			name: "short password",
			run: func() error {
				_, err := p.SignUp(ctx, SignUpInput{Email: "d@example.com", Password: "short", DisplayName: "D"})
				return err
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantVia != nil && !errors.Is(err, tt.wantVia) {
				t.Fatalf("expected cause %v, got %v", tt.wantVia, err)
			}
		})
	}
}

func TestLocalProvider_AdminWithCode(t *testing.T) {
	p := NewLocalProvider(memory.NewUsersRepo(), "let-me-in", nil)

	got, err := p.SignUp(context.Background(), SignUpInput{
		Email:       "admin@example.com",
		Password:    "password-1",
		DisplayName: "Admin",
		Admin:       true,
		AdminCode:   "let-me-in",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if !got.IsAdmin {
		t.Fatal("expected admin principal")
	}
}

func TestLocalProvider_EnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUsersRepo()
	p := NewLocalProvider(users, "", nil)

	created, err := p.EnsureAdmin(ctx, "root@example.com", "password-1", "Root")
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got created=%v err=%v", created, err)
	}

	created, err = p.EnsureAdmin(ctx, "root@example.com", "password-1", "Root")
	if err != nil || created {
		t.Fatalf("expected no-op on second call, got created=%v err=%v", created, err)
	}

	if users.Len() != 1 {
		t.Fatalf("expected 1 user, got %d", users.Len())
	}
}
