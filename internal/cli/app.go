// Package cli is the terminal client. Every command restores the session from
// a local SQLite state file, acts through the same services the web tier uses
// and prints the result.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/gate"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/session"
	"github.com/dkm/jobcards/internal/infrastructure/backend"
	"github.com/dkm/jobcards/internal/infrastructure/db/sqlite"
	"github.com/dkm/jobcards/internal/pkg/config"
	"github.com/dkm/jobcards/pkg/logger"
)

var (
	errNotLoggedIn  = errors.New("not logged in, run 'jobcards login' first")
	errSessionEnded = errors.New("your session has ended, run 'jobcards login' to sign in again")
)

// App is shared by every command: configuration, the logger and the backend
// client built from them.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	backend ports.Backend

	backendURL string
	stateFile  string
	verbose    bool
}

// RootCmd returns the jobcards command tree.
func RootCmd() *cobra.Command {
	app := &App{}
	root := &cobra.Command{
		Use:   "jobcards",
		Short: "Municipal job card client",
		Long: `jobcards lists, inspects and captures municipal job cards against the
job card REST backend. "jobcards serve" runs the browser front-end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd.Context()); err != nil {
				return err
			}
			level := "warn"
			if app.verbose {
				level = app.cfg.LogLevel
			}
			app.setup(logger.Options{Level: level, Pretty: true, Output: cmd.ErrOrStderr(), Service: "jobcards"})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&app.backendURL, "backend-url", "", "REST backend base URL (overrides BACKEND_URL)")
	root.PersistentFlags().StringVar(&app.stateFile, "state-file", "", "local session state file (overrides STATE_FILE)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log at LOG_LEVEL instead of warn")

	root.AddCommand(LoginCmd(app))
	root.AddCommand(LogoutCmd(app))
	root.AddCommand(WhoamiCmd(app))
	root.AddCommand(JobsCmd(app))
	root.AddCommand(ServeCmd(app))
	return root
}

// load reads the environment and applies flag overrides.
func (a *App) load(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
	}
	if a.stateFile != "" {
		cfg.StateFile = a.stateFile
	}
	if cfg.StateFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolve state directory: %w", err)
		}
		cfg.StateFile = filepath.Join(dir, "jobcards", "state.db")
	}
	a.cfg = cfg
	return nil
}

// setup initializes the logger and the backend client built from the config.
func (a *App) setup(opts logger.Options) {
	a.log = logger.Init(opts)
	a.backend = backend.New(backend.Options{
		BaseURL: a.cfg.Backend.URL,
		Timeout: a.cfg.Backend.Timeout,
		Logger:  a.log,
	})
}

// openSession restores the session from the state file. The returned close
// func releases the state file.
func (a *App) openSession(ctx context.Context, nav session.Navigator) (*session.Store, func() error, error) {
	db, err := sqlite.Open(ctx, a.cfg.StateFile)
	if err != nil {
		return nil, nil, err
	}
	storage := sqlite.NewTokenStorage(sqlite.NewState(db))
	store := session.NewStore(storage, nav, session.WithLogger(a.log))
	store.Initialize(ctx)
	return store, db.Close, nil
}

// withSession runs fn with the restored store carried by ctx. A teardown while
// fn runs (the backend rejected the token) is reported as errSessionEnded.
func (a *App) withSession(cmd *cobra.Command, fn func(ctx context.Context, store *session.Store) error) error {
	ended := false
	store, closeState, err := a.openSession(cmd.Context(), session.NavigatorFunc(func(string) { ended = true }))
	if err != nil {
		return err
	}
	defer closeState()

	err = fn(session.WithStore(cmd.Context(), store), store)
	if ended {
		a.log.Debug().Err(err).Str("command", cmd.Name()).Msg("session torn down")
		return errSessionEnded
	}
	return err
}

// admit runs the auth gate for a command. There is no loading state here
// because the store is initialized synchronously.
func admit(store *session.Store, roles ...domain.Role) (*domain.User, error) {
	if len(roles) == 0 {
		roles = domain.AllRoles
	}
	outcome := gate.Evaluate(store.Snapshot(), roles...)
	switch {
	case outcome.Renders():
		return store.User(), nil
	case outcome.Target == session.LoginPath:
		return nil, errNotLoggedIn
	default:
		return nil, userError{domain.ErrNotPermitted}
	}
}

// redirected converts a view outcome that did not render into an error.
func redirected(outcome gate.Outcome) error {
	if outcome.Renders() {
		return nil
	}
	if outcome.Target == gate.DashboardPath {
		return userError{domain.ErrNotPermitted}
	}
	return errNotLoggedIn
}

// userError shows the message a user would see for err while keeping err
// matchable with errors.Is.
type userError struct {
	err error
}

func (e userError) Error() string { return domain.UserMessage(e.err) }

func (e userError) Unwrap() error { return e.err }
