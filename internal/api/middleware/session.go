package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/core/session"
)

// SessionCookie carries the browser's session id.
const SessionCookie = "jobcards_sid"

const (
	sidKey        = "sid"
	navigationKey = "navigation"
)

// StorageFactory returns the token storage for one browser session.
type StorageFactory interface {
	For(sid string) session.Storage
}

// DraftClearer drops per-browser state that must not outlive a session.
type DraftClearer interface {
	Clear(ctx context.Context, sid string) error
}

// SessionOptions configures the Session middleware.
type SessionOptions struct {
	Storage StorageFactory
	// Drafts, when set, is cleared for the browser whenever a session starts or ends.
	Drafts  DraftClearer
	TTL     time.Duration
	Secure  bool
	Logger  zerolog.Logger
}

// navigation records the first target the session asked to move to.
type navigation struct {
	mu     sync.Mutex
	target string
}

func (n *navigation) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.target == "" {
		n.target = target
	}
}

func (n *navigation) pending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

// Session builds an initialized session store for the browser behind the
// request and places it in the request context. If the store navigated while
// the handler ran, the response becomes a redirect to that target.
//
// A request that signs a user in or out gets a fresh session id, and the
// drafts kept under the old id are dropped.
func Session(opts SessionOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c, opts)

			nav := &navigation{}
			store := session.NewStore(opts.Storage.For(sid), nav,
				session.WithLogger(opts.Logger.With().Str("sid", shortID(sid)).Logger()))

			req := c.Request()
			store.Initialize(req.Context())
			c.SetRequest(req.WithContext(session.WithStore(req.Context(), store)))
			c.Set(sidKey, sid)
			c.Set(navigationKey, nav)

			before := store.Snapshot()
			c.Response().Before(func() {
				rotate(c, opts, sid, before, store.Snapshot())
			})

			err := next(c)

			if target := nav.pending(); target != "" && !c.Response().Committed {
				if err != nil {
					opts.Logger.Debug().Err(err).Str("target", target).Msg("navigation replaces handler error")
				}
				return c.Redirect(http.StatusSeeOther, target)
			}
			return err
		}
	}
}

// SessionID returns the browser session id set by the Session middleware.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sidKey).(string)
	return sid
}

// PendingNavigation returns the target the session navigated to during this
// request, or "".
func PendingNavigation(c echo.Context) string {
	nav, ok := c.Get(navigationKey).(*navigation)
	if !ok {
		return ""
	}
	return nav.pending()
}

// rotate moves the browser to a new session id when the request started or
// ended a session. It runs just before the response header is written.
func rotate(c echo.Context, opts SessionOptions, sid string, before, after session.Snapshot) {
	ended := before.Authenticated() && !after.Authenticated()
	started := after.Authenticated() && after.Token != before.Token
	if !ended && !started {
		return
	}

	ctx := c.Request().Context()
	log := opts.Logger.With().Str("sid", shortID(sid)).Logger()
	if opts.Drafts != nil {
		if err := opts.Drafts.Clear(ctx, sid); err != nil {
			log.Warn().Err(err).Msg("failed to clear wizard draft")
		}
	}

	next := uuid.NewString()
	if started {
		if err := opts.Storage.For(next).Save(ctx, after.Token); err != nil {
			log.Warn().Err(err).Msg("session id not rotated")
			return
		}
		if err := opts.Storage.For(sid).Clear(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to clear token under previous session id")
		}
	}
	setSessionCookie(c, opts, next)
	c.Set(sidKey, next)
}

func sessionID(c echo.Context, opts SessionOptions) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	sid := uuid.NewString()
	setSessionCookie(c, opts, sid)
	return sid
}

func setSessionCookie(c echo.Context, opts SessionOptions, sid string) {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.TTL > 0 {
		cookie.MaxAge = int(opts.TTL.Seconds())
	}
	c.SetCookie(cookie)
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
