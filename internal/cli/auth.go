package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/service"
	"github.com/dkm/jobcards/internal/core/session"
)

// LoginCmd signs in and keeps the token in the state file.
func LoginCmd(app *App) *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the job card backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if name == "" {
				if name, err = promptLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Name"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			auth := service.NewAuthService(app.backend, ports.NopAuditor{}, app.log)
			return app.withSession(cmd, func(ctx context.Context, store *session.Store) error {
				if err := auth.Login(ctx, name, password); err != nil {
					return userError{err}
				}
				user := store.User()
				fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in as %s (%s)\n", okMark, user.Name, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

// LogoutCmd clears the stored session.
func LogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeState, err := app.openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeState()

			signedIn := store.User() != nil
			service.NewAuthService(app.backend, ports.NopAuditor{}, app.log).Logout(session.WithStore(cmd.Context(), store))
			if signedIn {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Logged out\n", okMark)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			}
			return nil
		},
	}
}

// WhoamiCmd prints the identity carried by the stored token.
func WhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withSession(cmd, func(_ context.Context, store *session.Store) error {
				user, err := admit(store)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", headline(user.Name), user.Role)
				fmt.Fprintf(out, "  ID:      %d\n", user.ID)
				if _, exp, err := session.Decode(store.Token(), time.Now()); err == nil {
					fmt.Fprintf(out, "  Expires: %s\n", exp.Local().Format(time.RFC1123))
				}
				if user.Role.CanCreateJobs() {
					fmt.Fprintln(out, "  Can create jobs")
				}
				return nil
			})
		},
	}
}
