package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/config"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
)

func pageLinks(doc *goquery.Document) []string {
	var out []string
	doc.Find("nav.pagination a.page-link").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func jobIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("li.job").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-id", ""))
	})
	return ids
}

func TestJobs_PaginationControls(t *testing.T) {
	for _, mode := range []string{config.PaginationServer, config.PaginationClient} {
		t.Run(mode, func(t *testing.T) {
			f := newFixture(t, func(c *config.Config) { c.Pagination = mode })
			c := f.loggedIn(seeker)

			resp, doc := f.get(c, "/jobs")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			// 7 jobs, 3 per page
			assert.Equal(t, []string{"1", "2", "3"}, pageLinks(doc))
			assert.Equal(t, []string{"J1", "J2", "J3"}, jobIDs(doc))
			assert.Equal(t, "1", doc.Find("a.page-link.current").Text())
			assert.Zero(t, doc.Find("a.page-prev").Length())

			_, doc = f.get(c, "/jobs?page=3")
			assert.Equal(t, []string{"J7"}, jobIDs(doc))
			assert.Equal(t, "3", doc.Find("a.page-link.current").Text())
			assert.Zero(t, doc.Find("a.page-next").Length())
			assert.Equal(t, "/jobs?page=2", doc.Find("a.page-prev").AttrOr("href", ""))
		})
	}
}

func TestJobs_PageCountMatchesResults(t *testing.T) {
	tests := []struct {
		pageSize int
		query    string
		want     int
	}{
		{pageSize: 3, query: "", want: 3},
		{pageSize: 7, query: "", want: 1},
		{pageSize: 2, query: "", want: 4},
		{pageSize: 2, query: "?search=engineer", want: 2},
		{pageSize: 3, query: "?search=nothing-matches", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newFixture(t, func(c *config.Config) { c.PageSize = tt.pageSize })
			_, doc := f.get(f.loggedIn(seeker), "/jobs"+tt.query)
			assert.Len(t, pageLinks(doc), tt.want)
			if tt.want == 0 {
				assert.Equal(t, 1, doc.Find(".empty").Length())
			}
		})
	}
}

func TestJobs_SearchParams(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	_, doc := f.get(c, "/jobs?search=engineer&type=Full-time&jobMode=all")
	calls := backendCalls(f.backend, http.MethodGet, "/user/fetchsearch")
	require.Len(t, calls, 1)

	sent, err := url.ParseQuery(calls[0].Query)
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"search": {"engineer"},
		"type":   {"Full-time"},
		"page":   {"1"},
		"limit":  {"3"},
	}, sent)
	assert.NotContains(t, sent, listing.ParamMode)

	assert.Equal(t, []string{"J1"}, jobIDs(doc))
	assert.Equal(t, "engineer", doc.Find(`input[name="search"]`).AttrOr("value", ""))
	assert.Equal(t, "Full-time", doc.Find(`select[name="type"] option[selected]`).AttrOr("value", ""))
	assert.Equal(t, "all", doc.Find(`select[name="jobMode"] option`).First().AttrOr("value", ""))
}

func TestJobs_PagerKeepsFilters(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.PageSize = 1 })
	_, doc := f.get(f.loggedIn(seeker), "/jobs?search=engineer&jobMode=Hybrid")

	hrefs := doc.Find("nav.pagination a.page-link").Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr("href", "")
	})
	assert.Equal(t, []string{
		"/jobs?jobMode=Hybrid&page=1&search=engineer",
		"/jobs?jobMode=Hybrid&page=2&search=engineer",
		"/jobs?jobMode=Hybrid&page=3&search=engineer",
	}, hrefs)
}

func TestJobs_ClientPagedFilters(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Pagination = config.PaginationClient })
	c := f.loggedIn(seeker)

	_, doc := f.get(c, "/jobs?search=ENGINEER&jobMode=Hybrid")
	assert.Equal(t, []string{"J2", "J4", "J6"}, jobIDs(doc))
	assert.Empty(t, backendCalls(f.backend, http.MethodGet, "/user/fetchsearch"))
	assert.NotEmpty(t, backendCalls(f.backend, http.MethodGet, "/user/getjobs"))
}

func TestJob_DetailAndApply(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	_, doc := f.get(c, "/jobs/J1")
	assert.Equal(t, "Backend Engineer", doc.Find("h1").Text())
	assert.Equal(t, "applied", doc.Find(".applied .status").Text())
	assert.Zero(t, doc.Find("button.apply").Length())

	_, doc = f.get(c, "/jobs/J3")
	require.Equal(t, 1, doc.Find("button.apply").Length())

	resp := f.post(c, "/jobs/J3/apply", nil)
	assert.Equal(t, "/jobs/J3", resp.Header.Get("Location"))
	_, doc = f.follow(c, resp)
	assert.Equal(t, "Applied", flashText(doc), "backend message wins")
	assert.Equal(t, "applied", doc.Find(".applied .status").Text())

	// A second application is refused by the backend and surfaced.
	_, doc = f.follow(c, f.post(c, "/jobs/J3/apply", nil))
	assert.Equal(t, "Already applied", flashText(doc))
	assert.Equal(t, 1, doc.Find(".flash-error").Length())
}

func TestJob_NotFound(t *testing.T) {
	f := newFixture(t)
	resp, doc := f.get(f.loggedIn(seeker), "/jobs/J404")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Job not found", doc.Find(".error-message").Text())
}

func TestApplications_Withdraw(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	_, doc := f.get(c, "/applications")
	rows := doc.Find("tr.application")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, 1, doc.Find(`tr[data-id="A1"] button.withdraw`).Length())
	assert.Zero(t, doc.Find(`tr[data-id="A2"] button.withdraw`).Length(), "hired is final")

	_, doc = f.follow(c, f.post(c, "/applications/A1/withdraw", nil))
	assert.Equal(t, "Application withdrawn", flashText(doc))
	assert.Equal(t, "withdrawn", doc.Find(`tr[data-id="A1"] .status`).Text())
}

func TestApplications_WithdrawRefusedLocally(t *testing.T) {
	f := newFixture(t)
	c := f.loggedIn(seeker)

	_, doc := f.follow(c, f.post(c, "/applications/A2/withdraw", nil))
	assert.Contains(t, flashText(doc), `cannot move from "hired" to "withdrawn"`)

	_, doc = f.follow(c, f.post(c, "/applications/A9/withdraw", nil))
	assert.Equal(t, "That application could not be found.", flashText(doc))

	for _, call := range f.backend.MutatingCalls() {
		assert.NotContains(t, call.Path, "withdrawapplication")
	}
}

func TestCompanies_FieldFilterAndPaging(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.PageSize = 1 })
	c := f.loggedIn(seeker)

	_, doc := f.get(c, "/companies")
	// Approved companies only: Globex and Initech.
	assert.Equal(t, []string{"1", "2"}, pageLinks(doc))
	assert.Equal(t, 4, doc.Find(`select[name="field"] option`).Length())

	_, doc = f.get(c, "/companies?field=Software")
	assert.Equal(t, []string{"1"}, pageLinks(doc))
	assert.Equal(t, "C3", doc.Find("li.company").AttrOr("data-id", ""))
	assert.Equal(t, "Software", doc.Find(`select[name="field"] option[selected]`).AttrOr("value", ""))

	_, doc = f.get(c, "/companies?field=all&search=glob")
	assert.Equal(t, "C2", doc.Find("li.company").AttrOr("data-id", ""))
}
