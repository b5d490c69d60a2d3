package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/session"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// password returns flag, or reads one line from stdin when flag is empty.
func (a *app) password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	a.say("Password:")
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) loginCmd() *cobra.Command {
	var req types.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Password, err = a.password(req.Password); err != nil {
				return err
			}
			req.Email = strings.TrimSpace(req.Email)
			if err := forms.Validate(req); err != nil {
				return a.invalid(err)
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := session.SaveCookies(a.cfg.SessionFile, c.BaseURL(), c.Cookies()); err != nil {
				return err
			}
			if res.Message != "" {
				a.say("%s", res.Message)
			}
			a.printer.PrintUser(res.User)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email (required)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Account password; read from stdin when omitted")
	mustMarkRequired(cmd, "email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if len(c.Cookies()) > 0 {
				if _, err := c.Logout(cmd.Context()); err != nil {
					a.say("backend logout failed: %v", err)
				}
			}
			if err := session.RemoveCookies(a.cfg.SessionFile); err != nil {
				return err
			}
			a.say("You have been logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, user, err := a.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintUser(user)
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var req types.RegistrationRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a job seeker account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Password, err = a.password(req.Password); err != nil {
				return err
			}
			req.ConfirmPassword = req.Password
			return a.submit(cmd, req, "Account created. Please log in.", func(ctx context.Context, c *api.Client) (string, error) {
				return c.Register(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email (required)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password; read from stdin when omitted")
	mustMarkRequired(cmd, "name", "email")
	return cmd
}

func (a *app) registerCompanyCmd() *cobra.Command {
	var req types.CompanyRegistrationRequest
	cmd := &cobra.Command{
		Use:   "register-company",
		Short: "Register a company and its administrator account",
		Long:  "Register a company. Its administrator can log in once a site admin approves it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Password, err = a.password(req.Password); err != nil {
				return err
			}
			return a.submit(cmd, req, "Company registered. You can log in once an administrator approves it.", func(ctx context.Context, c *api.Client) (string, error) {
				return c.RegisterCompany(ctx, req)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.CompanyName, "name", "", "Company name (required)")
	f.StringVarP(&req.Email, "email", "e", "", "Administrator email (required)")
	f.StringVarP(&req.Password, "password", "p", "", "Password; read from stdin when omitted")
	f.StringVar(&req.Phone, "phone", "", "Contact phone (required)")
	f.StringVar(&req.Location, "location", "", "Headquarters location (required)")
	f.StringVar(&req.Field, "field", "", "Industry field (required)")
	f.StringVar(&req.Website, "website", "", "Website URL")
	f.StringVar(&req.Description, "description", "", "Short description")
	mustMarkRequired(cmd, "name", "email", "phone", "location", "field")
	return cmd
}

func (a *app) forgotPasswordCmd() *cobra.Command {
	var req types.ForgotPasswordRequest
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.submit(cmd, req, "If that address has an account, a reset link is on its way.", func(ctx context.Context, c *api.Client) (string, error) {
				return c.ForgotPassword(ctx, req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email (required)")
	mustMarkRequired(cmd, "email")
	return cmd
}

func (a *app) resetPasswordCmd() *cobra.Command {
	var req types.ResetPasswordRequest
	cmd := &cobra.Command{
		Use:   "reset-password <reset-id>",
		Short: "Set a new password from a reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Password, err = a.password(req.Password); err != nil {
				return err
			}
			req.ConfirmPassword = req.Password
			return a.submit(cmd, req, "Password updated. Please log in.", func(ctx context.Context, c *api.Client) (string, error) {
				return c.ResetPassword(ctx, args[0], req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "New password; read from stdin when omitted")
	return cmd
}

// submit validates form, then issues call and reports the backend's
// message, or fallback when it sent none.
func (a *app) submit(cmd *cobra.Command, form any, fallback string, call func(context.Context, *api.Client) (string, error)) error {
	if err := forms.Validate(form); err != nil {
		return a.invalid(err)
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	msg, err := call(cmd.Context(), c)
	if err != nil {
		return errors.New(api.Message(err))
	}
	if msg == "" {
		msg = fallback
	}
	a.say("%s", msg)
	return nil
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
