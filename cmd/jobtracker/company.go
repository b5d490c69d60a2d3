package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// interviewLayout is how interview times are entered, in local time.
const interviewLayout = "2006-01-02T15:04"

func (a *app) companyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage your company's postings and applicants",
	}
	cmd.AddCommand(
		a.companyJobsCmd(),
		a.companyPostCmd(),
		a.idCommand("open <job-id>", "Reopen a posting", types.RoleCompanyAdmin, actions.OpenJob),
		a.idCommand("close <job-id>", "Close a posting", types.RoleCompanyAdmin, actions.CloseJob),
		a.companyApplicationsCmd(),
		a.companyInterviewCmd(),
		a.companyResultCmd(),
	)
	return cmd
}

func (a *app) companyJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List your postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleCompanyAdmin)
			if err != nil {
				return err
			}
			jobs, err := a.dispatcher(c).Stores().MyJobs.Get(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintJobs(jobs, 1, min(len(jobs), 1), len(jobs))
			return nil
		},
	}
}

func (a *app) companyPostCmd() *cobra.Command {
	var req types.JobPostRequest
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a new job",
		Long:  "Post a new job. Skills, benefits and tags are comma separated.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			job, err := forms.JobPost(req)
			if err != nil {
				return a.invalid(err)
			}
			return a.act(cmd, types.RoleCompanyAdmin, actions.PostJob(job))
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Title, "title", "", "Job title")
	f.StringVar(&req.Description, "description", "", "Job description")
	f.StringVar(&req.Location, "location", "", "Location")
	f.StringVar(&req.Type, "type", "", "Full-time, Part-time, Contract or Internship")
	f.StringVar(&req.Mode, "mode", "", "Remote, Onsite or Hybrid")
	f.StringVar(&req.Seniority, "seniority", "", "Entry, Mid, Senior or Lead")
	f.StringVar(&req.Salary, "salary", "", "Salary range")
	f.StringVar(&req.Skills, "skills", "", "Required skills")
	f.StringVar(&req.Benefits, "benefits", "", "Benefits")
	f.StringVar(&req.Tags, "tags", "", "Tags")
	return cmd
}

func (a *app) companyApplicationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "applications <job-id>",
		Short: "List applications received for a posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.signedIn(cmd.Context(), types.RoleCompanyAdmin)
			if err != nil {
				return err
			}
			st := a.dispatcher(c).Stores()
			jobs, err := st.MyJobs.Get(cmd.Context())
			if err != nil {
				return err
			}
			var job *types.Job
			for i := range jobs {
				if jobs[i].ID == args[0] {
					job = &jobs[i]
				}
			}
			if job == nil {
				return fmt.Errorf("job not found: %s", args[0])
			}
			apps, err := st.JobApplications(job.ID).Get(cmd.Context())
			if err != nil {
				return err
			}
			a.printer.PrintApplications("APPLICATIONS FOR "+strings.ToUpper(job.Title), apps)
			return nil
		},
	}
}

func (a *app) companyInterviewCmd() *cobra.Command {
	var jobID, at, note string
	cmd := &cobra.Command{
		Use:   "interview <application-id>",
		Short: "Schedule an interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := time.ParseInLocation(interviewLayout, at, time.Local)
			if err != nil {
				return fmt.Errorf("interview time %q must look like 2030-03-04T10:30", at)
			}
			req := types.InterviewRequest{At: when, Note: strings.TrimSpace(note)}
			if err := forms.Validate(req); err != nil {
				return a.invalid(err)
			}
			return a.act(cmd, types.RoleCompanyAdmin, actions.ScheduleInterview(jobID, args[0], req))
		},
	}
	f := cmd.Flags()
	f.StringVar(&jobID, "job", "", "Job the application belongs to")
	f.StringVar(&at, "at", "", "Interview time, local, as 2006-01-02T15:04 (required)")
	f.StringVar(&note, "note", "", "Note for the candidate")
	mustMarkRequired(cmd, "at")
	return cmd
}

func (a *app) companyResultCmd() *cobra.Command {
	var jobID, result string
	cmd := &cobra.Command{
		Use:   "result <application-id>",
		Short: "Record an interview result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.act(cmd, types.RoleCompanyAdmin,
				actions.RecordInterviewResult(jobID, args[0], types.InterviewResult(result)))
		},
	}
	f := cmd.Flags()
	f.StringVar(&jobID, "job", "", "Job the application belongs to")
	f.StringVar(&result, "result", "", "hired or rejected (required)")
	mustMarkRequired(cmd, "result")
	return cmd
}
