package server

import (
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// Filter choices offered on the job listing.
var (
	jobTypes = []string{"Full-time", "Part-time", "Contract", "Internship"}
	jobModes = []string{"Remote", "Onsite", "Hybrid"}
)

type jobsView struct {
	Query    listing.Query
	Type     string
	Mode     string
	Types    []string
	Modes    []string
	Jobs     []types.Job
	Pager    Pager
	Paginate string
}

// handleJobs lists open jobs with search, type and mode filters. Paging
// happens on the backend or here, per configuration.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	q := listing.QueryFromValues(r.URL.Query(), listing.ParamType, listing.ParamMode)
	q.Limit = s.cfg.PageSize

	var (
		jobs  []types.Job
		total int
	)
	switch s.mode {
	case listing.ClientPaged:
		all, err := s.client.ListJobs(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		matched := listing.Filter(all, listing.MatchJob(q))
		total = len(matched)
		jobs = listing.Paginate(matched, q.Page, q.Limit)
	default:
		res, err := s.client.SearchJobs(r.Context(), q.Params())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		jobs, total = res.Jobs, res.Total
	}

	s.render(w, r, http.StatusOK, "jobs", page{
		Title: "Jobs",
		Data: jobsView{
			Query:    q,
			Type:     q.Filter(listing.ParamType),
			Mode:     q.Filter(listing.ParamMode),
			Types:    jobTypes,
			Modes:    jobModes,
			Jobs:     jobs,
			Pager:    newPager("/jobs", q, total),
			Paginate: s.mode.String(),
		},
	})
}

type jobView struct {
	Job         *types.Job
	Application *types.Application
}

// handleJob shows one job and whether the user has already applied.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var (
		job  *types.Job
		apps []types.Application
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		job, err = s.client.JobDetails(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = s.client.MyApplications(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}

	view := jobView{Job: job}
	for i := range apps {
		if apps[i].JobID == id && apps[i].Status != types.StatusWithdrawn {
			view.Application = &apps[i]
			break
		}
	}
	s.render(w, r, http.StatusOK, "job", page{Title: job.Title, Data: view})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.dispatchAndRedirect(w, r, actions.ApplyToJob(id), "/jobs/"+id)
}

func (s *Server) handleApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.stores().MyApplications.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	apps = slices.Clone(apps)
	slices.SortStableFunc(apps, func(a, b types.Application) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	s.render(w, r, http.StatusOK, "applications", page{Title: "My applications", Data: apps})
}

// handleWithdraw withdraws one of the user's applications. The current
// status is checked here first so a final application is refused without
// a backend call.
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	apps, err := s.client.MyApplications(r.Context())
	if err != nil {
		s.flashError(w, r, err, "/applications")
		return
	}
	i := slices.IndexFunc(apps, func(a types.Application) bool { return a.ID == id })
	if i < 0 {
		s.flashError(w, r, &ErrMissingResource{Kind: "application", ID: id}, "/applications")
		return
	}
	s.dispatchAndRedirect(w, r, actions.WithdrawApplication(apps[i]), "/applications")
}

type companiesView struct {
	Query     listing.Query
	Field     string
	Fields    []string
	Companies []types.Company
	Pager     Pager
}

// handleCompanies lists approved companies, filtered by field and name and
// paged here.
func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	q := listing.QueryFromValues(r.URL.Query(), listing.ParamField)
	q.Limit = s.cfg.PageSize

	st := s.stores()
	var (
		companies []types.Company
		fields    []string
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		companies, err = st.Companies.Get(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		fields, err = st.Fields.Get(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}

	field := q.Filter(listing.ParamField)
	matched := listing.Filter(companies, listing.MatchCompany(q))

	s.render(w, r, http.StatusOK, "companies", page{
		Title: "Companies",
		Data: companiesView{
			Query:     q,
			Field:     field,
			Fields:    fields,
			Companies: listing.Paginate(matched, q.Page, q.Limit),
			Pager:     newPager("/companies", q, len(matched)),
		},
	})
}
