package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

func validJobForm() url.Values {
	return url.Values{
		"title":       {"Site Reliability Engineer"},
		"description": {"Keep the platform healthy and the pagers quiet."},
		"location":    {"Porto"},
		"type":        {"Full-time"},
		"jobMode":     {"Onsite"},
		"seniority":   {"Senior"},
		"skills":      {"Go, Kubernetes,, Go"},
		"benefits":    {"Health, Gym"},
	}
}

func TestCompanyJobs_List(t *testing.T) {
	f := newFixture(t)
	resp, doc := f.get(f.loggedIn(employer), "/company/jobs")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, doc.Find("tr.posting").Length())
	assert.Equal(t, 1, doc.Find(`tr.posting[data-id="J1"] button.close`).Length())
}

func TestNewJob_ValidationKeepsInput(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)

	form := validJobForm()
	form.Set("title", "Go")
	form.Set("type", "Gig")
	form.Del("skills")
	resp, err := c.PostForm(f.url+"/company/jobs/new", form)
	require.NoError(t, err)
	doc := document(t, resp)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "must be at least 3 characters", fieldError(doc, "title"))
	assert.Equal(t, "must be one of Full-time, Part-time, Contract, Internship", fieldError(doc, "type"))
	assert.Equal(t, "is required", fieldError(doc, "skills"))
	assert.Empty(t, fieldError(doc, "location"))
	assert.Equal(t, "Porto", doc.Find(`input[name="location"]`).AttrOr("value", ""))
	assert.Equal(t, "Onsite", doc.Find(`select[name="jobMode"] option[selected]`).AttrOr("value", ""))

	assert.Empty(t, backendCalls(f.backend, http.MethodPost, "/companyadmin/postnewjob"))
}

func TestNewJob_Posts(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)

	resp := f.post(c, "/company/jobs/new", validJobForm())
	assert.Equal(t, "/company/jobs", resp.Header.Get("Location"))

	calls := backendCalls(f.backend, http.MethodPost, "/companyadmin/postnewjob")
	require.Len(t, calls, 1)
	var sent types.NewJob
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
	assert.Equal(t, []string{"Go", "Kubernetes"}, sent.Skills)
	assert.Equal(t, []string{"Health", "Gym"}, sent.Benefits)
	assert.Equal(t, "Onsite", sent.Mode)

	_, doc := f.follow(c, resp)
	assert.Equal(t, "Job posted", flashText(doc))
	assert.Equal(t, 8, doc.Find("tr.posting").Length())
}

func TestNewJob_BackendFailureRerendersForm(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)
	f.backend.Fail(http.StatusBadRequest)

	resp, err := c.PostForm(f.url+"/company/jobs/new", validJobForm())
	require.NoError(t, err)
	doc := document(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "backend refused", strings.TrimSpace(doc.Find(".form-error").Text()))
	assert.Equal(t, "Site Reliability Engineer", doc.Find(`input[name="title"]`).AttrOr("value", ""))
}

func TestJobStatus_CloseAndReopen(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)

	_, doc := f.follow(c, f.post(c, "/company/jobs/J1/status", url.Values{"status": {"Closed"}}))
	assert.Equal(t, "Job updated", flashText(doc))
	assert.Equal(t, "Closed", strings.TrimSpace(doc.Find(`tr.posting[data-id="J1"] .status`).Text()))
	assert.Equal(t, 1, doc.Find(`tr.posting[data-id="J1"] button.open`).Length())

	calls := backendCalls(f.backend, http.MethodPatch, "/companyadmin/job/J1/status")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"status":"Closed"}`, calls[0].Body)

	_, doc = f.follow(c, f.post(c, "/company/jobs/J1/status", url.Values{"status": {"Paused"}}))
	assert.Contains(t, flashText(doc), "must be Open or Closed")
	assert.Len(t, backendCalls(f.backend, http.MethodPatch, "/companyadmin/job/J1/status"), 1)
}

func TestJobApplications_Page(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)

	resp, doc := f.get(c, "/company/jobs/J1/applications")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Applications for Backend Engineer", doc.Find("h1").Text())
	assert.Equal(t, "Ana Silva", strings.TrimSpace(doc.Find(`tr.application[data-id="A1"] td`).First().Text()))
	assert.Equal(t, 1, doc.Find(`tr.application[data-id="A1"] form.schedule`).Length())
	assert.Zero(t, doc.Find(`tr.application[data-id="A1"] form.result`).Length())

	resp, _ = f.get(c, "/company/jobs/J99/applications")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInterview_ScheduleThenHire(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)

	resp := f.post(c, "/company/applications/A1/interview", url.Values{
		"jobId":         {"J1"},
		"interviewDate": {"2030-03-04T10:30"},
		"interviewNote": {"Bring a laptop"},
	})
	assert.Equal(t, "/company/jobs/J1/applications", resp.Header.Get("Location"))
	_, doc := f.follow(c, resp)
	assert.Equal(t, "Application updated", flashText(doc))

	row := doc.Find(`tr.application[data-id="A1"]`)
	assert.Equal(t, "interview", row.Find(".status").Text())
	assert.Contains(t, row.Text(), "4 Mar 2030 10:30")
	assert.Contains(t, row.Text(), "Bring a laptop")
	assert.Equal(t, 1, row.Find("form.result").Length())

	_, doc = f.follow(c, f.post(c, "/company/applications/A1/result", url.Values{"jobId": {"J1"}, "result": {"hired"}}))
	assert.Equal(t, "hired", doc.Find(`tr.application[data-id="A1"] .status`).Text())
	assert.Zero(t, doc.Find(`tr.application[data-id="A1"] form`).Length(), "hired is final")
}

func TestInterview_BadInput(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(employer)

	_, doc := f.follow(c, f.post(c, "/company/applications/A1/interview", url.Values{"jobId": {"J1"}, "interviewDate": {"tomorrow"}}))
	assert.Contains(t, flashText(doc), "is not a valid date and time")

	_, doc = f.follow(c, f.post(c, "/company/applications/A1/result", url.Values{"jobId": {"J1"}, "result": {"maybe"}}))
	assert.Contains(t, flashText(doc), `unknown interview result "maybe"`)

	resp := f.post(c, "/company/applications/A1/result", url.Values{"jobId": {"../admin"}, "result": {"hired"}})
	assert.Equal(t, "/company/jobs", resp.Header.Get("Location"))

	for _, call := range f.backend.MutatingCalls() {
		assert.NotContains(t, call.Path, "/interview")
	}
}
