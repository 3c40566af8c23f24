package identity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
)

func TestNewTokenManagerRejectsEmptySecret(t *testing.T) {
	if _, err := identity.NewTokenManager("   ", time.Hour); !errors.Is(err, shared.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for blank secret, got %v", err)
	}
	if _, err := identity.NewTokenManager("secret", 0); !errors.Is(err, shared.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for zero ttl, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tokens, err := identity.NewTokenManager("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	id := identity.SessionIdentity{UserID: 1, Role: rbac.RoleUKNFAdmin}
	signed, _, err := tokens.IssueWithTTL(id, time.Millisecond)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, _, err := tokens.Parse(signed); !errors.Is(err, shared.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuerA, err := identity.NewTokenManager("secret-a-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	issuerB, err := identity.NewTokenManager("secret-b-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	signed, _, err := issuerA.Issue(identity.SessionIdentity{UserID: 1, Role: rbac.RoleEntityUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := issuerB.Parse(signed); !errors.Is(err, shared.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestParseRejectsUnknownRole(t *testing.T) {
	tokens, err := identity.NewTokenManager("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	signed, _, err := tokens.Issue(identity.SessionIdentity{UserID: 1, Role: rbac.Role("superuser")})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := tokens.Parse(signed); !errors.Is(err, shared.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown role, got %v", err)
	}
}
