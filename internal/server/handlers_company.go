package server

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// interviewLayout is the value format of a datetime-local input.
const interviewLayout = "2006-01-02T15:04"

func (s *Server) handleCompanyJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.stores().MyJobs.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "company_jobs", page{Title: "Your job postings", Data: jobs})
}

type newJobView struct {
	Types       []string
	Modes       []string
	Seniorities []string
}

var jobFormChoices = newJobView{
	Types:       jobTypes,
	Modes:       jobModes,
	Seniorities: []string{"Entry", "Mid", "Senior", "Lead"},
}

func (s *Server) handleNewJobPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "company_job_new", page{
		Title: "Post a job",
		Form:  types.JobPostRequest{},
		Data:  jobFormChoices,
	})
}

// handleNewJob validates the posting, then creates it. Both validation and
// backend failures re-render the form with what was entered.
func (s *Server) handleNewJob(w http.ResponseWriter, r *http.Request) {
	req := types.JobPostRequest{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
		Type:        r.PostFormValue("type"),
		Mode:        r.PostFormValue("jobMode"),
		Seniority:   r.PostFormValue("seniority"),
		Salary:      strings.TrimSpace(r.PostFormValue("salary")),
		Skills:      r.PostFormValue("skills"),
		Benefits:    r.PostFormValue("benefits"),
		Tags:        r.PostFormValue("tags"),
	}
	p := page{Title: "Post a job", Form: req, Data: jobFormChoices}

	job, err := forms.JobPost(req)
	if err != nil {
		s.renderForm(w, r, "company_job_new", p, err)
		return
	}

	var rec actions.Recorder
	if err := s.dispatch(r.Context(), actions.PostJob(job), &rec); err != nil {
		s.renderForm(w, r, "company_job_new", p, err)
		return
	}
	for _, n := range rec.Notifications() {
		s.flash.Set(w, n)
	}
	http.Redirect(w, r, "/company/jobs", http.StatusSeeOther)
}

// handleJobStatus opens or closes one of the company's postings.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var a actions.Action
	switch types.JobStatus(r.PostFormValue("status")) {
	case types.JobOpen:
		a = actions.OpenJob(id)
	case types.JobClosed:
		a = actions.CloseJob(id)
	default:
		s.flashError(w, r, &ErrBadInput{Field: "status", Message: "must be Open or Closed"}, "/company/jobs")
		return
	}
	s.dispatchAndRedirect(w, r, a, "/company/jobs")
}

type jobApplicationsView struct {
	Job          *types.Job
	Applications []types.Application
}

func (s *Server) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st := s.stores()

	var (
		jobs []types.Job
		apps []types.Application
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		jobs, err = st.MyJobs.Get(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = st.JobApplications(id).Get(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}

	view := jobApplicationsView{Applications: apps}
	for i := range jobs {
		if jobs[i].ID == id {
			view.Job = &jobs[i]
		}
	}
	if view.Job == nil {
		s.fail(w, r, &ErrMissingResource{Kind: "job", ID: id})
		return
	}
	s.render(w, r, http.StatusOK, "company_applications", page{Title: "Applications for " + view.Job.Title, Data: view})
}

// applicationsPath is the list an application action returns to.
func applicationsPath(r *http.Request) string {
	if jobID := r.PostFormValue("jobId"); jobID != "" && !strings.ContainsAny(jobID, "/?#") {
		return "/company/jobs/" + jobID + "/applications"
	}
	return "/company/jobs"
}

func (s *Server) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	back := applicationsPath(r)
	at, err := time.ParseInLocation(interviewLayout, r.PostFormValue("interviewDate"), time.Local)
	if err != nil {
		s.flashError(w, r, &ErrBadInput{Field: "Interview date", Message: "is not a valid date and time"}, back)
		return
	}
	req := types.InterviewRequest{At: at, Note: strings.TrimSpace(r.PostFormValue("interviewNote"))}
	if err := forms.Validate(req); err != nil {
		s.flashError(w, r, err, back)
		return
	}
	s.dispatchAndRedirect(w, r, actions.ScheduleInterview(r.PostFormValue("jobId"), r.PathValue("id"), req), back)
}

func (s *Server) handleInterviewResult(w http.ResponseWriter, r *http.Request) {
	result := types.InterviewResult(r.PostFormValue("result"))
	s.dispatchAndRedirect(w, r,
		actions.RecordInterviewResult(r.PostFormValue("jobId"), r.PathValue("id"), result),
		applicationsPath(r))
}
