package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkm/jobcards/internal/core/session"
)

const defaultSessionTTL = 12 * time.Hour

// TokenStorage persists one browser session's token.
// Key format: jobcards:session:<sid>:token
type TokenStorage struct {
	client redis.Cmdable
	sid    string
	ttl    time.Duration
}

// Sessions hands out TokenStorage for session ids.
type Sessions struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewSessions wraps client. Stored tokens expire after ttl of inactivity.
func NewSessions(client redis.Cmdable, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{client: client, ttl: ttl}
}

// For returns the storage for session sid.
func (s *Sessions) For(sid string) session.Storage {
	return &TokenStorage{client: s.client, sid: sid, ttl: s.ttl}
}

func (t *TokenStorage) Load(ctx context.Context) (string, error) {
	token, err := t.client.Get(ctx, tokenKey(t.sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session token: %w", err)
	}
	// Sliding expiry: every read keeps an active session alive.
	if err := t.client.Expire(ctx, tokenKey(t.sid), t.ttl).Err(); err != nil {
		return token, fmt.Errorf("refresh session token: %w", err)
	}
	return token, nil
}

func (t *TokenStorage) Save(ctx context.Context, token string) error {
	if err := t.client.Set(ctx, tokenKey(t.sid), token, t.ttl).Err(); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (t *TokenStorage) Clear(ctx context.Context) error {
	if err := t.client.Del(ctx, tokenKey(t.sid)).Err(); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

func tokenKey(sid string) string {
	return fmt.Sprintf("jobcards:session:%s:token", sid)
}
