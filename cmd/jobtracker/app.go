package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/config"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/observability"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/session"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/store"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// errNotLoggedIn is returned by commands that need a saved session.
var errNotLoggedIn = errors.New("not logged in: run `jobtracker login` first")

// app holds what every command shares: flags, config and output.
type app struct {
	cfgPath    string
	backendURL string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	printer *observability.Printer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, printer: observability.NewPrinter(out)}

	root := &cobra.Command{
		Use:   "jobtracker",
		Short: "Job board page server and terminal client",
		Long: "jobtracker serves the job board's pages in front of its REST backend, " +
			"and offers the same job seeker, company and admin workflows from the terminal.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return a.setup() },
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to a JSON or YAML config file")
	root.PersistentFlags().StringVar(&a.backendURL, "backend", "", "Backend API base URL (overrides config)")

	root.AddCommand(
		a.serveCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.registerCompanyCmd(),
		a.forgotPasswordCmd(),
		a.resetPasswordCmd(),
		a.jobsCmd(),
		a.applyCmd(),
		a.withdrawCmd(),
		a.applicationsCmd(),
		a.companiesCmd(),
		a.profileCmd(),
		a.companyCmd(),
		a.adminCmd(),
	)
	return root
}

// setup loads configuration and installs the configured logger in every
// package that logs.
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.BackendURL = a.backendURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	l := cfg.Logger()
	api.SetLogger(l)
	session.SetLogger(l)
	listing.SetLogger(l)
	store.SetLogger(l)
	actions.SetLogger(l)
	server.SetLogger(l)
	return nil
}

// client returns a backend client carrying the saved session, if any.
func (a *app) client() (*api.Client, error) {
	c, err := api.New(api.Config{BaseURL: a.cfg.BackendURL, Timeout: a.cfg.RequestTimeout.Std()})
	if err != nil {
		return nil, err
	}
	cookies, err := session.LoadCookies(a.cfg.SessionFile, c.BaseURL())
	if err != nil {
		return nil, err
	}
	c.SetCookies(cookies)
	return c, nil
}

// signedIn runs the shared role gate against the saved session. No roles
// admits any signed-in user.
func (a *app) signedIn(ctx context.Context, roles ...types.Role) (*api.Client, *types.SessionUser, error) {
	c, err := a.client()
	if err != nil {
		return nil, nil, err
	}
	gate := session.NewGate(a.cfg.AccessDeniedPath, roles...)
	decision, snap := gate.Check(ctx, session.NewStore(c))
	if decision.Verdict == session.Allow {
		return c, snap.User, nil
	}
	if !snap.Authenticated() {
		return nil, nil, errNotLoggedIn
	}
	return nil, nil, fmt.Errorf("signed in as %s (%s); this command is for %s accounts", snap.User.Email, snap.User.Role, roleList(roles))
}

func roleList(roles []types.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}

// dispatcher runs actions against c, reporting outcomes on stderr.
func (a *app) dispatcher(c *api.Client) *actions.Dispatcher {
	return actions.NewDispatcher(c, store.New(c, nil), actions.NewWriterNotifier(a.errOut))
}

// invalid prints field errors when err carries them and passes err on.
func (a *app) invalid(err error) error {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		a.printer.PrintValidation(ve)
	}
	return err
}

//nolint:errcheck // writing to the terminal; errors are not recoverable
func (a *app) say(format string, args ...any) {
	fmt.Fprintf(a.errOut, format+"\n", args...)
}

// act runs one action as a signed-in role holder.
func (a *app) act(cmd *cobra.Command, role types.Role, action actions.Action) error {
	c, _, err := a.signedIn(cmd.Context(), role)
	if err != nil {
		return err
	}
	return a.dispatcher(c).Run(cmd.Context(), action)
}

// idCommand builds a command taking one id argument that runs one action.
func (a *app) idCommand(use, short string, role types.Role, build func(id string) actions.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.act(cmd, role, build(args[0]))
		},
	}
}
