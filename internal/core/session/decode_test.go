package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkm/jobcards/internal/core/domain"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestDecode_ReadsClaims(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	token := sign(t, jwt.MapClaims{"id": 12, "name": "thabo", "role": "Technician", "exp": now.Add(time.Minute).Unix()})

	user, exp, err := Decode(token, now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ID != 12 || user.Name != "thabo" || user.Role != domain.RoleTechnician {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !exp.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected exp: %v", exp)
	}
}

func TestDecode_IgnoresSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	token := sign(t, jwt.MapClaims{"id": 1, "name": "a", "role": "Director", "exp": now.Add(time.Hour).Unix()})
	tampered := token[:len(token)-4] + "AAAA"

	if _, _, err := Decode(tampered, now); err != nil {
		t.Fatalf("expected unverified decode to succeed, got %v", err)
	}
}

func TestDecode_MissingExp(t *testing.T) {
	token := sign(t, jwt.MapClaims{"id": 1, "name": "a", "role": "Director"})
	if _, _, err := Decode(token, time.Now()); !errors.Is(err, domain.ErrMalformedSession) {
		t.Fatalf("expected ErrMalformedSession, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, _, err := Decode("", time.Now()); !errors.Is(err, domain.ErrMalformedSession) {
		t.Fatalf("expected ErrMalformedSession, got %v", err)
	}
}
