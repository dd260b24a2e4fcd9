// Package session holds the client-side authentication state: the opaque
// token issued by the backend and the identity decoded from it.
//
// A Store is explicitly constructed and owned by its host (one per browser
// session on the web tier, one per process in the terminal client) and handed
// down through context.Context. There is no package-level session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/domain"
)

// LoginPath is the unauthenticated entry view.
const LoginPath = "/"

// Storage persists the token across reloads under a single fixed key.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Snapshot is a consistent reading of the store.
type Snapshot struct {
	Token   string
	User    *domain.User
	Loading bool
}

// Authenticated reports whether the snapshot carries a usable session.
func (s Snapshot) Authenticated() bool {
	return !s.Loading && s.Token != "" && s.User != nil
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now, used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// Store is the session state machine.
//
// Invariant: user is set iff token is set, and both are only set from a token
// that decoded and was unexpired when it was loaded or logged in.
type Store struct {
	storage Storage
	nav     Navigator
	now     func() time.Time
	log     zerolog.Logger

	initOnce sync.Once

	mu        sync.RWMutex
	token     string
	user      *domain.User
	loading   bool
	navigated bool
}

// NewStore returns a store in the loading state. Call Initialize before use.
func NewStore(storage Storage, nav Navigator, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		nav:     nav,
		now:     time.Now,
		log:     zerolog.Nop(),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the session from storage. A token that is missing,
// undecodable or expired leaves the store without a session and clears the
// persisted copy. Loading becomes false exactly once; later calls are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		token, user := s.restore(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.loading {
			s.token, s.user = token, user
			s.loading = false
		}
	})
}

func (s *Store) restore(ctx context.Context) (string, *domain.User) {
	token, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session storage unreadable, starting without session")
		return "", nil
	}
	if token == "" {
		return "", nil
	}

	user, _, err := Decode(token, s.now())
	if err != nil {
		s.log.Debug().Err(err).Msg("discarding stored token")
		if clearErr := s.storage.Clear(ctx); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("failed to clear discarded token")
		}
		return "", nil
	}
	return token, user
}

// Login persists token and replaces the session with the identity it carries.
// A token that does not decode or is already expired is rejected with
// domain.ErrMalformedSession and leaves both the store and storage untouched.
func (s *Store) Login(ctx context.Context, token string) error {
	user, _, err := Decode(token, s.now())
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token, s.user = token, user
	s.loading = false
	s.navigated = false
	s.mu.Unlock()

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session started")
	return nil
}

// Logout clears the persisted and in-memory session and sends the user to the
// login view. Repeated calls leave the same state and navigate only once.
func (s *Store) Logout(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted token")
	}

	s.mu.Lock()
	s.token, s.user = "", nil
	s.loading = false
	navigate := !s.navigated
	s.navigated = true
	s.mu.Unlock()

	if navigate && s.nav != nil {
		s.nav.Navigate(LoginPath)
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Token: s.token, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Token returns the current token, or "" without a session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current identity, or nil without a session.
func (s *Store) User() *domain.User {
	return s.Snapshot().User
}

// Loading reports whether Initialize has not completed yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
