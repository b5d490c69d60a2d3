package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

func (a *app) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Site administration",
	}
	admin := types.RoleAdmin
	cmd.AddCommand(
		a.adminCompaniesCmd(),
		a.idCommand("approve <company-id>", "Approve a company", admin, actions.ApproveCompany),
		a.idCommand("reject <company-id>", "Reject a company", admin, actions.RejectCompany),
		a.adminUsersCmd(),
		a.idCommand("block <user-id>", "Block a user", admin, actions.BlockUser),
		a.idCommand("unblock <user-id>", "Unblock a user", admin, actions.UnblockUser),
		a.adminProfileCmd(),
		a.adminJobsCmd(),
		a.idCommand("force-close <job-id>", "Close any company's job", admin, actions.ForceCloseJob),
		a.idCommand("reopen <job-id>", "Lift a forced close", admin, actions.ReopenJob),
	)
	return cmd
}

func (a *app) adminCompaniesCmd() *cobra.Command {
	var pending bool
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleAdmin)
			if err != nil {
				return err
			}
			st := a.dispatcher(c).Stores()
			title := "ALL COMPANIES"
			var companies []types.Company
			if pending {
				title = "PENDING COMPANIES"
				companies, err = st.PendingCompanies(cmd.Context())
			} else {
				companies, err = st.AdminCompanies.Get(cmd.Context())
			}
			if err != nil {
				return err
			}
			a.printer.PrintCompanies(title, companies)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "Only companies awaiting a decision")
	return cmd
}

func (a *app) adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleAdmin)
			if err != nil {
				return err
			}
			users, err := c.AdminUsers(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintUsers(users)
			return nil
		},
	}
}

func (a *app) adminProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <user-id>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleAdmin)
			if err != nil {
				return err
			}
			view, err := c.AdminUserProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printer.PrintProfile(view)
			return nil
		},
	}
}

func (a *app) adminJobsCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List every job on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleAdmin)
			if err != nil {
				return err
			}
			jobs, err := c.AdminJobs(cmd.Context())
			if err != nil {
				return err
			}
			if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
				var matched []types.Job
				for _, j := range jobs {
					if strings.Contains(strings.ToLower(j.Title+" "+j.CompanyName), s) {
						matched = append(matched, j)
					}
				}
				jobs = matched
			}
			a.printer.PrintJobs(jobs, 1, min(len(jobs), 1), len(jobs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match titles and company names")
	return cmd
}
