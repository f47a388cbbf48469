package auth

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	m := NewManager("test-secret", time.Hour, clock)

	p := Principal{ID: "u-1", Email: "ana@example.com", IsAdmin: true}

	raw, issued, err := m.GenerateAccessToken(p)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.VerifyAccessToken(raw)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}

	if claims.UserID != "u-1" || claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
	if claims.JTI == "" || claims.JTI != issued.JTI {
		t.Fatalf("expected jti %q, got %q", issued.JTI, claims.JTI)
	}

	got := PrincipalFromClaims(claims)
	if got.ID != p.ID || !got.IsAdmin {
		t.Fatalf("unexpected principal: %+v", got)
	}
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	m := NewManager("test-secret", time.Minute, clock)

	raw, _, err := m.GenerateAccessToken(Principal{ID: "u-1"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	clock.Advance(2 * time.Minute)

	if _, err := m.VerifyAccessToken(raw); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	a := NewManager("secret-a", time.Hour, nil)
	b := NewManager("secret-b", time.Hour, nil)

	raw, _, err := a.GenerateAccessToken(Principal{ID: "u-1"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := b.VerifyAccessToken(raw); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
