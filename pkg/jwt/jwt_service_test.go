package jwt

import (
	"Recipegram-Backend/domain"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewJWTService()
	userID := uuid.NewString()

	token := svc.GenerateTokenUser(userID, domain.RoleUser)
	if token == "" {
		t.Fatal("expected a signed token")
	}

	gotID, gotRole, err := svc.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("GetUserIDByToken returned error: %v", err)
	}
	if gotID != userID || gotRole != domain.RoleUser {
		t.Fatalf("claims round trip mismatch: got (%s, %s)", gotID, gotRole)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	t.Parallel()
	svc := NewJWTService()

	token := svc.GenerateTokenUser(uuid.NewString(), domain.RoleUser)
	tampered := token + "x"

	if _, _, err := svc.GetUserIDByToken(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	if _, _, err := svc.GetUserIDByToken("not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage input, got %v", err)
	}
}
