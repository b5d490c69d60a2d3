package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// jobFetcher returns the job listing source for mode. Server paging asks
// the search endpoint for one page; client paging loads every open job and
// filters here, leaving paging to the caller.
func jobFetcher(c *api.Client, mode listing.Mode) listing.Fetcher[types.Job] {
	if mode == listing.ClientPaged {
		return func(ctx context.Context, q listing.Query) (listing.Result[types.Job], error) {
			all, err := c.ListJobs(ctx)
			if err != nil {
				return listing.Result[types.Job]{}, err
			}
			matched := listing.Filter(all, listing.MatchJob(q))
			return listing.Result[types.Job]{Items: matched, Total: len(matched)}, nil
		}
	}
	return func(ctx context.Context, q listing.Query) (listing.Result[types.Job], error) {
		res, err := c.SearchJobs(ctx, q.Params())
		if err != nil {
			return listing.Result[types.Job]{}, err
		}
		return listing.Result[types.Job]{Items: res.Jobs, Total: res.Total}, nil
	}
}

func (a *app) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Find open jobs",
	}
	cmd.AddCommand(a.jobsSearchCmd(), a.jobsBrowseCmd(), a.jobsShowCmd())
	return cmd
}

func (a *app) jobsSearchCmd() *cobra.Command {
	var (
		search, jobType, mode string
		page, limit           int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print one page of matching jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.cfg.PageSize
			}
			q := listing.Query{Search: search, Page: max(page, 1), Limit: limit}.
				WithFilter(listing.ParamType, jobType).
				WithFilter(listing.ParamMode, mode)

			listMode := listing.ParseMode(a.cfg.Pagination)
			fetch := jobFetcher(c, listMode)
			if listMode == listing.ClientPaged {
				all := q
				all.Page, all.Limit = 0, 0
				res, err := fetch(cmd.Context(), all)
				if err != nil {
					return err
				}
				pages := listing.PageCount(res.Total, limit)
				p := listing.ClampPage(q.Page, pages)
				a.printer.PrintJobs(listing.Paginate(res.Items, p, limit), p, pages, res.Total)
				return nil
			}
			res, err := fetch(cmd.Context(), q)
			if err != nil {
				return err
			}
			a.printer.PrintJobs(res.Items, q.Page, listing.PageCount(res.Total, limit), res.Total)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&search, "search", "s", "", "Free text matched against job titles")
	f.StringVar(&jobType, "type", "", "Job type: Full-time, Part-time, Contract, Internship or all")
	f.StringVar(&mode, "mode", "", "Work mode: Remote, Onsite, Hybrid or all")
	f.IntVar(&page, "page", 1, "Page number")
	f.IntVar(&limit, "limit", 0, "Jobs per page (default from config)")
	return cmd
}

const browseHelp = `Type to search. Commands:
  :type <value>   filter by job type (all clears)
  :mode <value>   filter by work mode (all clears)
  :page <n>       go to page n
  :next, :prev    move one page
  :quit           leave`

func (a *app) jobsBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Search jobs interactively",
		Long:  "Read search text and filter commands from stdin, refreshing the listing as they arrive.\n\n" + browseHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			ctl := listing.NewController(cmd.Context(), jobFetcher(c, listing.ParseMode(a.cfg.Pagination)), listing.Options{
				Mode:     listing.ParseMode(a.cfg.Pagination),
				PageSize: a.cfg.PageSize,
				Debounce: a.cfg.SearchDebounce.Std(),
			})
			defer ctl.Close()
			ctl.OnChange(a.showListing)

			a.say("%s", browseHelp)
			ctl.Load()
			if !a.browse(ctl, bufio.NewScanner(a.in)) {
				// run a search still waiting out the debounce
				ctl.Flush()
			}
			ctl.Wait()
			return nil
		},
	}
}

// showListing prints settled listing states.
func (a *app) showListing(st listing.State[types.Job]) {
	switch st.Status {
	case listing.StatusReady, listing.StatusNoResults:
		a.printer.PrintJobs(st.Items, st.Page, st.PageCount, st.Total)
	case listing.StatusFailed:
		a.say("✗ %s", api.Message(st.Err))
	}
}

// browse applies input lines to ctl. It reports whether the user quit.
func (a *app) browse(ctl *listing.Controller[types.Job], lines *bufio.Scanner) bool {
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if !strings.HasPrefix(line, ":") {
			ctl.SetSearch(line)
			continue
		}
		verb, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
		arg = strings.TrimSpace(arg)
		switch verb {
		case "type":
			ctl.SetFilter(listing.ParamType, arg)
		case "mode":
			ctl.SetFilter(listing.ParamMode, arg)
		case "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				a.say("page must be a number")
				continue
			}
			ctl.SetPage(n)
		case "next":
			ctl.SetPage(ctl.State().Page + 1)
		case "prev":
			ctl.SetPage(ctl.State().Page - 1)
		case "quit", "q":
			return true
		default:
			a.say("unknown command :%s", verb)
		}
	}
	return false
}

func (a *app) jobsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job and your application to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			var (
				job  *types.Job
				apps []types.Application
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				job, err = c.JobDetails(ctx, args[0])
				return err
			})
			g.Go(func() error {
				var err error
				apps, err = c.MyApplications(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return errors.New(api.Message(err))
			}

			a.printer.PrintJob(job)
			for _, app := range apps {
				if app.JobID == job.ID && app.Status != types.StatusWithdrawn {
					a.say("You applied on %s; status: %s", app.CreatedAt.Format("2 Jan 2006"), app.Status)
				}
			}
			return nil
		},
	}
}

func (a *app) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply to a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			return a.dispatcher(c).Run(cmd.Context(), actions.ApplyToJob(args[0]))
		},
	}
}

func (a *app) withdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <application-id>",
		Short: "Withdraw one of your applications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			d := a.dispatcher(c)
			apps, err := d.Stores().MyApplications.Get(cmd.Context())
			if err != nil {
				return err
			}
			i := slices.IndexFunc(apps, func(app types.Application) bool { return app.ID == args[0] })
			if i < 0 {
				return fmt.Errorf("application not found: %s", args[0])
			}
			return d.Run(cmd.Context(), actions.WithdrawApplication(apps[i]))
		},
	}
}

func (a *app) applicationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "applications",
		Short: "List your applications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			apps, err := c.MyApplications(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintApplications("MY APPLICATIONS", apps)
			return nil
		},
	}
}

func (a *app) companiesCmd() *cobra.Command {
	var (
		search, field string
		page          int
	)
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List approved companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleUser)
			if err != nil {
				return err
			}
			var (
				companies []types.Company
				fields    []string
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				companies, err = c.ListCompanies(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				fields, err = c.CompanyFields(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			if !listing.IsSentinel(field) && !slices.ContainsFunc(fields, func(f string) bool { return strings.EqualFold(f, field) }) {
				return fmt.Errorf("unknown field %q; choose from %s", field, strings.Join(fields, ", "))
			}

			q := listing.Query{Search: search}.WithFilter(listing.ParamField, field)
			matched := listing.Filter(companies, listing.MatchCompany(q))
			size := a.cfg.PageSize
			pages := listing.PageCount(len(matched), size)
			p := listing.ClampPage(page, pages)
			a.printer.PrintCompanies(fmt.Sprintf("COMPANIES  page %d of %d", p, pages), listing.Paginate(matched, p, size))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&search, "search", "s", "", "Match company names")
	f.StringVar(&field, "field", "", "Industry field, or all")
	f.IntVar(&page, "page", 1, "Page number")
	return cmd
}
