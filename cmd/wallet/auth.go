package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

func (r *root) loginCmd() *cobra.Command {
	var creds model.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if err := askMissing(ctx, prompter, []field{
				{label: "Username", value: &creds.Username},
				{label: "Password", value: &creds.Password},
			}); err != nil {
				return err
			}

			return r.withApp(ctx, func(a *app) error {
				session, err := a.auth.Login(ctx, creds)
				if err != nil {
					return err
				}
				return printLine(cmd.OutOrStdout(), cli.FormatSuccess("Logged in as "+displayName(session)))
			})
		},
	}

	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func (r *root) registerCmd() *cobra.Command {
	var reg model.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if err := askMissing(ctx, prompter, []field{
				{label: "Username", value: &reg.Username},
				{label: "Email", value: &reg.Email},
				{label: "Password", value: &reg.Password},
				{label: "Confirm password", value: &reg.Password2},
			}); err != nil {
				return err
			}

			return r.withApp(ctx, func(a *app) error {
				session, err := a.auth.Register(ctx, reg)
				if err != nil {
					return err
				}
				return printLine(cmd.OutOrStdout(), cli.FormatSuccess("Welcome, "+displayName(session)))
			})
		},
	}

	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&reg.Password2, "confirm", "", "password confirmation")
	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "last name")
	return cmd
}

func (r *root) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if err := a.auth.Logout(ctx); err != nil {
					common.LogError(err, "Server logout failed, local session cleared anyway", nil)
				}
				return printLine(cmd.OutOrStdout(), cli.FormatSuccess("Logged out"))
			})
		},
	}
}

func (r *root) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if err := a.requireLogin(); err != nil {
					return err
				}
				session, err := a.auth.LoadProfile(ctx)
				if err != nil {
					return err
				}

				content := fmt.Sprintf("Username: %s\nEmail:    %s\nName:     %s %s",
					session.Username, session.Email, session.FirstName, session.LastName)
				return printLine(cmd.OutOrStdout(), cli.RenderBox("Profile", content))
			})
		},
	}
}

func (r *root) statusCmd() *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the API connection and local state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			return r.withApp(ctx, func(a *app) error {
				err := common.WithRetry(ctx, func() error {
					return a.client.CheckConnection(ctx)
				}, common.RetryOptions{MaxAttempts: attempts, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second})

				api := cli.SuccessStyle.Render(cli.SuccessIcon + " reachable")
				if err != nil {
					api = cli.WarningStyle.Render(cli.WarningIcon + " offline, using cached data")
				}

				user := cli.SubtleStyle.Render("not logged in")
				if session := a.auth.Snapshot().Session; session.Authenticated() {
					user = displayName(*session)
				}

				content := fmt.Sprintf("API:    %s %s\nUser:   %s\nCache:  %s (%s)\nTheme:  %s\nPeriod: %s",
					a.cfg.APIURL, api, user, a.cfg.CachePath, a.cfg.CacheBackend,
					a.settings.Snapshot().Theme, a.ui.Period())
				return printLine(out, cli.RenderBox("Status", content))
			})
		},
	}

	cmd.Flags().IntVar(&attempts, "attempts", 3, "connection attempts before reporting offline")
	return cmd
}

type field struct {
	value *string
	label string
}

// askMissing prompts for every field that is still empty.
func askMissing(ctx context.Context, p *cli.Prompter, fields []field) error {
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		answer, err := p.Ask(ctx, f.label, "")
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.label, err)
		}
		*f.value = answer
	}
	return nil
}

func displayName(s model.Session) string {
	if s.FirstName != "" {
		return s.FirstName + " (" + s.Username + ")"
	}
	return s.Username
}

func printLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
