// Package sessiontest mints backend-shaped tokens and ready-made stores for tests.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/session"
)

// Token signs a token for user expiring at exp. The key is irrelevant because
// the client never verifies signatures.
func Token(t testing.TB, user domain.User, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Recorder is a Navigator that remembers every target.
type Recorder struct {
	Targets []string
}

func (r *Recorder) Navigate(target string) { r.Targets = append(r.Targets, target) }

// LoggedIn returns a context carrying an initialized store for user, plus the
// store and its navigation recorder.
func LoggedIn(t testing.TB, user domain.User) (context.Context, *session.Store, *Recorder) {
	t.Helper()
	storage := &session.MemoryStorage{}
	_ = storage.Save(context.Background(), Token(t, user, time.Now().Add(time.Hour)))

	nav := &Recorder{}
	store := session.NewStore(storage, nav)
	store.Initialize(context.Background())
	if store.User() == nil {
		t.Fatalf("expected session for %s", user.Name)
	}
	return session.WithStore(context.Background(), store), store, nav
}

// Anonymous returns a context carrying an initialized store without a session.
func Anonymous(t testing.TB) (context.Context, *session.Store, *Recorder) {
	t.Helper()
	nav := &Recorder{}
	store := session.NewStore(&session.MemoryStorage{}, nav)
	store.Initialize(context.Background())
	return session.WithStore(context.Background(), store), store, nav
}
