package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/expensetracker/internal/app"
)

func (r *runner) loginCommand() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if username == "" {
					fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
					line, err := readLine(cmd.InOrStdin())
					if err != nil {
						return err
					}
					username = line
				}
				password, err := r.readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				if err := a.Session.Login(ctx, username, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", a.Session.UserName())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	return cmd
}

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token and cached transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func (r *runner) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(_ context.Context, a *app.App) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				snap := a.Session.Snapshot()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (id %s)\n", snap.UserName, snap.UserID)
				if !snap.ExpiresAt.IsZero() {
					fmt.Fprintf(out, "session expires %s\n", snap.ExpiresAt.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	}
}
