package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenName is the client_state row holding the session token.
const TokenName = "session.token"

// State is the client_state table: named string values, each stamped with
// the time it was last written.
type State struct {
	db  *sql.DB
	now func() time.Time
}

func NewState(db *sql.DB) *State {
	return &State{db: db, now: time.Now}
}

// Value returns the value stored under name. found is false when no row exists.
func (s *State) Value(ctx context.Context, name string) (value string, found bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE name = ?`, name)
	switch scanErr := row.Scan(&value); {
	case errors.Is(scanErr, sql.ErrNoRows):
		return "", false, nil
	case scanErr != nil:
		return "", false, fmt.Errorf("read %s from client state: %w", name, scanErr)
	}
	return value, true, nil
}

// Put writes value under name, replacing any earlier value.
func (s *State) Put(ctx context.Context, name, value string) error {
	const q = `INSERT OR REPLACE INTO client_state (name, value, updated_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, name, value, s.now().Unix()); err != nil {
		return fmt.Errorf("write %s to client state: %w", name, err)
	}
	return nil
}

// Remove drops name. Removing a missing name is not an error.
func (s *State) Remove(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove %s from client state: %w", name, err)
	}
	return nil
}

// TokenStorage keeps the session token in the client state, so a login
// survives between terminal invocations.
type TokenStorage struct {
	state *State
}

func NewTokenStorage(state *State) *TokenStorage {
	return &TokenStorage{state: state}
}

func (t *TokenStorage) Load(ctx context.Context) (string, error) {
	token, _, err := t.state.Value(ctx, TokenName)
	return token, err
}

func (t *TokenStorage) Save(ctx context.Context, token string) error {
	return t.state.Put(ctx, TokenName, token)
}

func (t *TokenStorage) Clear(ctx context.Context) error {
	return t.state.Remove(ctx, TokenName)
}
