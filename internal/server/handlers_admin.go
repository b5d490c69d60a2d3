package server

import (
	"net/http"
	"strconv"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// Company list views.
const (
	viewPending = "pending"
	viewAll     = "all"
)

type adminCompaniesView struct {
	View      string
	Companies []types.Company
}

// handleAdminCompanies lists every company, or with ?view=pending only
// those awaiting a decision.
func (s *Server) handleAdminCompanies(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	st := s.stores()

	var (
		companies []types.Company
		err       error
	)
	if view == viewPending {
		companies, err = st.PendingCompanies(r.Context())
	} else {
		view = viewAll
		companies, err = st.AdminCompanies.Get(r.Context())
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_companies", page{
		Title: "Companies",
		Data:  adminCompaniesView{View: view, Companies: companies},
	})
}

func companiesPath(view string) string {
	if view == viewPending {
		return "/admin/companies?view=pending"
	}
	return "/admin/companies"
}

func (s *Server) handleCompanyStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := companiesPath(r.PostFormValue("view"))
	switch r.PostFormValue("decision") {
	case "approve":
		s.dispatchAndRedirect(w, r, actions.ApproveCompany(id), back)
	case "reject":
		s.dispatchAndRedirect(w, r, actions.RejectCompany(id), back)
	default:
		s.flashError(w, r, &ErrBadInput{Field: "decision", Message: "must be approve or reject"}, back)
	}
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.stores().AdminUsers.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_users", page{Title: "Users", Data: users})
}

func (s *Server) handleUserStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	blocked, err := strconv.ParseBool(r.PostFormValue("blocked"))
	if err != nil {
		s.flashError(w, r, &ErrBadInput{Field: "blocked", Message: "must be true or false"}, "/admin/users")
		return
	}
	a := actions.UnblockUser(id)
	if blocked {
		a = actions.BlockUser(id)
	}
	s.dispatchAndRedirect(w, r, a, "/admin/users")
}

func (s *Server) handleAdminUserProfile(w http.ResponseWriter, r *http.Request) {
	view, err := s.client.AdminUserProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_user_profile", page{Title: view.Name, Data: view})
}

func (s *Server) handleAdminJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.stores().AdminJobs.Get(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_jobs", page{Title: "All jobs", Data: jobs})
}

func (s *Server) handleAdminJobStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	closed, err := strconv.ParseBool(r.PostFormValue("forceClosed"))
	if err != nil {
		s.flashError(w, r, &ErrBadInput{Field: "forceClosed", Message: "must be true or false"}, "/admin/jobs")
		return
	}
	a := actions.ReopenJob(id)
	if closed {
		a = actions.ForceCloseJob(id)
	}
	s.dispatchAndRedirect(w, r, a, "/admin/jobs")
}
