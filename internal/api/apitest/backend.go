// Package apitest provides an in-memory job-board backend served over
// httptest, speaking the same envelope and routes as the real one.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// CookieName is the session cookie the backend sets on login.
const CookieName = "token"

// Account is a login the backend accepts.
type Account struct {
	Password string
	User     types.SessionUser
}

// Call records one request the backend received.
type Call struct {
	Method  string
	Path    string
	Query   string
	Body    string
	Cookies []string // names only
}

// Backend is a fake job-board backend. Fields may be seeded before the
// first request; afterwards use the accessor methods.
type Backend struct {
	Accounts     map[string]Account
	Companies    []types.Company
	Fields       []string
	Users        []types.AdminUser
	Jobs         []types.Job
	Applications []types.Application
	Profiles     map[string]*types.Profile

	// FailNext makes the next mutating call fail with this status. Use
	// Fail once the backend is serving.
	FailNext int

	mu     sync.Mutex
	calls  []Call
	server *httptest.Server
}

// Start serves b until the test ends. It returns the API base URL.
func (b *Backend) Start(t testing.TB) string {
	b.server = httptest.NewServer(b.Handler())
	t.Cleanup(b.server.Close)
	return b.server.URL + "/api"
}

// Calls returns every recorded request.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// MutatingCalls returns recorded requests other than GETs.
func (b *Backend) MutatingCalls() []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

// Company returns a copy of the company with id.
func (b *Backend) Company(id string) (types.Company, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return types.Company{}, false
}

// Fail makes the next mutating call fail with status.
func (b *Backend) Fail(status int) {
	b.mu.Lock()
	b.FailNext = status
	b.mu.Unlock()
}

// SetProfile stores p as userID's profile.
func (b *Backend) SetProfile(userID string, p types.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Profiles == nil {
		b.Profiles = map[string]*types.Profile{}
	}
	b.Profiles[userID] = &p
}

// Profile returns the stored profile for userID.
func (b *Backend) Profile(userID string) *types.Profile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Profiles[userID]
}

// Handler returns the backend's routes under /api.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/auth/checkme", b.withUser("", b.checkMe))
	mux.HandleFunc("POST /api/auth/login", b.login)
	mux.HandleFunc("POST /api/auth/logout", b.logout)
	mux.HandleFunc("POST /api/auth/registration", b.ok("Registration successful"))
	mux.HandleFunc("POST /api/auth/register-company", b.ok("Company registered, awaiting approval"))
	mux.HandleFunc("POST /api/auth/forgot-password", b.ok("Reset link sent"))
	mux.HandleFunc("POST /api/auth/reset-password/{id}", b.ok("Password updated"))

	mux.HandleFunc("GET /api/user/getjobs", b.withUser(types.RoleUser, b.listJobs))
	mux.HandleFunc("GET /api/user/fetchsearch", b.withUser(types.RoleUser, b.searchJobs))
	mux.HandleFunc("GET /api/user/jobsdetails/{id}", b.withUser(types.RoleUser, b.jobDetails))
	mux.HandleFunc("POST /api/user/addapplication/{id}", b.withUser(types.RoleUser, b.apply))
	mux.HandleFunc("DELETE /api/user/withdrawapplication/{id}", b.withUser(types.RoleUser, b.withdraw))
	mux.HandleFunc("GET /api/user/myapplications", b.withUser(types.RoleUser, b.myApplications))
	mux.HandleFunc("GET /api/user/companieslist", b.withUser(types.RoleUser, b.listCompanies))
	mux.HandleFunc("GET /api/user/company-fields", b.withUser(types.RoleUser, b.companyFields))
	mux.HandleFunc("GET /api/user/getuserprofile", b.withUser(types.RoleUser, b.getProfile))
	mux.HandleFunc("POST /api/user/addprofile", b.withUser(types.RoleUser, b.addProfile))

	mux.HandleFunc("GET /api/companyadmin/myjobs", b.withUser(types.RoleCompanyAdmin, b.myJobs))
	mux.HandleFunc("POST /api/companyadmin/postnewjob", b.withUser(types.RoleCompanyAdmin, b.postJob))
	mux.HandleFunc("PATCH /api/companyadmin/job/{id}/status", b.withUser(types.RoleCompanyAdmin, b.jobStatus))
	mux.HandleFunc("GET /api/companyadmin/job/{id}/applications", b.withUser(types.RoleCompanyAdmin, b.jobApplications))
	mux.HandleFunc("PATCH /api/companyadmin/application/{id}/interview", b.withUser(types.RoleCompanyAdmin, b.interview))
	mux.HandleFunc("PATCH /api/companyadmin/application/{id}/result", b.withUser(types.RoleCompanyAdmin, b.result))

	mux.HandleFunc("GET /api/superadmin/companies", b.withUser(types.RoleAdmin, b.adminCompanies))
	mux.HandleFunc("PATCH /api/superadmin/company/{id}/status", b.withUser(types.RoleAdmin, b.companyStatus))
	mux.HandleFunc("GET /api/superadmin/users", b.withUser(types.RoleAdmin, b.adminUsers))
	mux.HandleFunc("PATCH /api/superadmin/user/{id}/status", b.withUser(types.RoleAdmin, b.userStatus))
	mux.HandleFunc("GET /api/superadmin/user/{id}/profile", b.withUser(types.RoleAdmin, b.userProfile))
	mux.HandleFunc("GET /api/superadmin/jobs", b.withUser(types.RoleAdmin, b.adminJobs))
	mux.HandleFunc("PATCH /api/superadmin/job/{id}/status", b.withUser(types.RoleAdmin, b.adminJobStatus))

	return b.record(mux)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/api"), Query: r.URL.RawQuery}
		for _, c := range r.Cookies() {
			call.Cookies = append(call.Cookies, c.Name)
		}
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ := io.ReadAll(r.Body)
			call.Body = string(body)
			r.Body = io.NopCloser(strings.NewReader(call.Body))
		}
		b.mu.Lock()
		b.calls = append(b.calls, call)
		fail := 0
		if r.Method != http.MethodGet && b.FailNext != 0 {
			fail, b.FailNext = b.FailNext, 0
		}
		b.mu.Unlock()

		if fail != 0 {
			writeJSON(w, fail, map[string]any{"success": false, "message": "backend refused"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, user types.SessionUser)

// withUser resolves the session cookie. A role of "" accepts any user.
func (b *Backend) withUser(role types.Role, h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "No token"})
			return
		}
		b.mu.Lock()
		var user *types.SessionUser
		for _, acct := range b.Accounts {
			if acct.User.ID == cookie.Value {
				u := acct.User
				user = &u
			}
		}
		b.mu.Unlock()
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid token"})
			return
		}
		if role != "" && user.Role != role {
			writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "message": "Forbidden"})
			return
		}
		h(w, r, *user)
	}
}

func (b *Backend) ok(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
	}
}

func (b *Backend) checkMe(w http.ResponseWriter, _ *http.Request, user types.SessionUser) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "bad body"})
		return
	}
	b.mu.Lock()
	acct, ok := b.Accounts[req.Email]
	b.mu.Unlock()
	if !ok || acct.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: acct.User.ID, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged in", "user": acct.User})
}

func (b *Backend) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (b *Backend) listJobs(w http.ResponseWriter, _ *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	jobs := slices.DeleteFunc(slices.Clone(b.Jobs), func(j types.Job) bool { return !j.Open() })
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": jobs})
}

func (b *Backend) searchJobs(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))

	b.mu.Lock()
	var matched []types.Job
	for _, j := range b.Jobs {
		if !j.Open() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(j.Title), search) {
			continue
		}
		if t := q.Get("type"); t != "" && j.Type != t {
			continue
		}
		if m := q.Get("jobMode"); m != "" && j.Mode != m {
			continue
		}
		matched = append(matched, j)
	}
	b.mu.Unlock()

	total := len(matched)
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page > 0 && limit > 0 {
		start := min((page-1)*limit, total)
		end := min(start+limit, total)
		matched = matched[start:end]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    matched,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (b *Backend) jobDetails(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, j := range b.Jobs {
		if j.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": j})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Job not found"})
}

func (b *Backend) apply(w http.ResponseWriter, r *http.Request, user types.SessionUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	jobID := r.PathValue("id")
	for _, a := range b.Applications {
		if a.JobID == jobID && a.ApplicantID == user.ID && a.Status != types.StatusWithdrawn {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "Already applied"})
			return
		}
	}
	b.Applications = append(b.Applications, types.Application{
		ID:            fmt.Sprintf("A%d", len(b.Applications)+1),
		JobID:         jobID,
		ApplicantID:   user.ID,
		ApplicantName: user.Name,
		Status:        types.StatusApplied,
		CreatedAt:     time.Now().UTC(),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Applied"})
}

func (b *Backend) withdraw(w http.ResponseWriter, r *http.Request, user types.SessionUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range b.Applications {
		if a.ID == r.PathValue("id") && a.ApplicantID == user.ID {
			b.Applications[i].Status = types.StatusWithdrawn
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Application withdrawn"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Application not found"})
}

func (b *Backend) myApplications(w http.ResponseWriter, _ *http.Request, user types.SessionUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []types.Application
	for _, a := range b.Applications {
		if a.ApplicantID == user.ID {
			out = append(out, b.withJobLocked(a))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (b *Backend) withJobLocked(a types.Application) types.Application {
	for _, j := range b.Jobs {
		if j.ID == a.JobID {
			job := j
			a.Job = &job
		}
	}
	return a
}

func (b *Backend) listCompanies(w http.ResponseWriter, _ *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	companies := slices.DeleteFunc(slices.Clone(b.Companies), func(c types.Company) bool {
		return !c.Approved || c.Blocked
	})
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": companies})
}

func (b *Backend) companyFields(w http.ResponseWriter, _ *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	fields := slices.Clone(b.Fields)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": fields})
}

func (b *Backend) getProfile(w http.ResponseWriter, _ *http.Request, user types.SessionUser) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": b.Profile(user.ID)})
}

// addProfile accepts the multipart profile form. Text parts that hold JSON
// arrays or objects are decoded as such.
func (b *Backend) addProfile(w http.ResponseWriter, r *http.Request, user types.SessionUser) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "expected multipart form"})
		return
	}
	doc := map[string]any{}
	for key, values := range r.MultipartForm.Value {
		raw := values[0]
		var structured any
		if (strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{")) && json.Unmarshal([]byte(raw), &structured) == nil {
			doc[key] = structured
		} else {
			doc[key] = raw
		}
	}
	for key, files := range r.MultipartForm.File {
		doc[key] = "/uploads/" + user.ID + "/" + files[0].Filename
	}
	encoded, _ := json.Marshal(doc)
	var profile types.Profile
	if err := json.Unmarshal(encoded, &profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	b.mu.Lock()
	if b.Profiles == nil {
		b.Profiles = map[string]*types.Profile{}
	}
	b.Profiles[user.ID] = &profile
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Profile saved"})
}

func (b *Backend) myJobs(w http.ResponseWriter, _ *http.Request, user types.SessionUser) {
	b.mu.Lock()
	jobs := slices.DeleteFunc(slices.Clone(b.Jobs), func(j types.Job) bool { return j.CompanyID != user.ID })
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": jobs})
}

func (b *Backend) postJob(w http.ResponseWriter, r *http.Request, user types.SessionUser) {
	var req types.NewJob
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "bad body"})
		return
	}
	b.mu.Lock()
	b.Jobs = append(b.Jobs, types.Job{
		ID:          fmt.Sprintf("J%d", len(b.Jobs)+1),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		Mode:        req.Mode,
		Seniority:   req.Seniority,
		Salary:      req.Salary,
		Skills:      req.Skills,
		Benefits:    req.Benefits,
		Tags:        req.Tags,
		Status:      types.JobOpen,
		CompanyID:   user.ID,
		CompanyName: user.Name,
	})
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Job posted"})
}

func (b *Backend) jobStatus(w http.ResponseWriter, r *http.Request, user types.SessionUser) {
	var body struct {
		Status types.JobStatus `json:"status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.updateJob(w, r.PathValue("id"), func(j *types.Job) bool {
		if j.CompanyID != user.ID {
			return false
		}
		j.Status = body.Status
		return true
	})
}

func (b *Backend) adminJobStatus(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	var body struct {
		ForceClosed bool `json:"forceClosed"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.updateJob(w, r.PathValue("id"), func(j *types.Job) bool {
		j.ForceClosed = body.ForceClosed
		return true
	})
}

func (b *Backend) updateJob(w http.ResponseWriter, id string, apply func(*types.Job) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Jobs {
		if b.Jobs[i].ID == id && apply(&b.Jobs[i]) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Job updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Job not found"})
}

func (b *Backend) jobApplications(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []types.Application
	for _, a := range b.Applications {
		if a.JobID == r.PathValue("id") {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (b *Backend) interview(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	var req types.InterviewRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.updateApplication(w, r.PathValue("id"), types.StatusInterview, func(a *types.Application) {
		at := req.At
		a.InterviewAt = &at
		a.InterviewNote = req.Note
	})
}

func (b *Backend) result(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	var body struct {
		Result types.InterviewResult `json:"result"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.updateApplication(w, r.PathValue("id"), body.Result.Status(), nil)
}

func (b *Backend) updateApplication(w http.ResponseWriter, id string, next types.ApplicationStatus, apply func(*types.Application)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Applications {
		a := &b.Applications[i]
		if a.ID != id {
			continue
		}
		if !a.Status.CanTransition(next) {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "Invalid status change"})
			return
		}
		a.Status = next
		if apply != nil {
			apply(a)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Application updated"})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Application not found"})
}

func (b *Backend) adminCompanies(w http.ResponseWriter, _ *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	companies := slices.Clone(b.Companies)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": companies})
}

func (b *Backend) companyStatus(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	var body struct {
		Status *bool `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "status is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Companies {
		c := &b.Companies[i]
		if c.ID == r.PathValue("id") {
			c.Approved = *body.Status
			c.Rejected = !*body.Status
			msg := "Company rejected"
			if c.Approved {
				msg = "Company approved"
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Company not found"})
}

func (b *Backend) adminUsers(w http.ResponseWriter, _ *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	users := slices.Clone(b.Users)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": users})
}

func (b *Backend) userStatus(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	var body struct {
		Blocked bool `json:"isBlocked"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Users {
		if b.Users[i].ID == r.PathValue("id") {
			b.Users[i].Blocked = body.Blocked
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User updated"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
}

func (b *Backend) userProfile(w http.ResponseWriter, r *http.Request, _ types.SessionUser) {
	profile := b.Profile(r.PathValue("id"))
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": profile})
}

func (b *Backend) adminJobs(w http.ResponseWriter, _ *http.Request, _ types.SessionUser) {
	b.mu.Lock()
	jobs := slices.Clone(b.Jobs)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": jobs})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
