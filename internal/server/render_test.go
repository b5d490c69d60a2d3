package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
)

func TestPager(t *testing.T) {
	q := listing.Query{Search: "go", Page: 9, Limit: 4}.WithFilter(listing.ParamType, "Contract")
	p := newPager("/jobs", q, 10)

	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 3, p.Page, "clamped to the last page")
	assert.Equal(t, []int{1, 2, 3}, p.Numbers)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, "/jobs?page=2&search=go&type=Contract", p.Href(p.Prev()))
	assert.NotContains(t, p.Query, listing.ParamLimit)
}

func TestPager_Empty(t *testing.T) {
	p := newPager("/companies", listing.Query{Page: 1, Limit: 5}, 0)
	assert.Zero(t, p.Pages)
	assert.Empty(t, p.Numbers)
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, "/companies?page=1", p.Href(1))
}

func TestTemplateFuncs(t *testing.T) {
	date := templateFuncs["date"].(func(time.Time) string)
	datetime := templateFuncs["datetime"].(func(*time.Time) string)
	selected := templateFuncs["selected"].(func(a, b string) bool)

	at := time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "1 May 2024", date(at))
	assert.Empty(t, date(time.Time{}))
	assert.Equal(t, "1 May 2024 09:05", datetime(&at))
	assert.Empty(t, datetime(nil))
	assert.True(t, selected("Remote", "remote"))
	assert.False(t, selected("Remote", ""))
}

func TestLoadTemplates(t *testing.T) {
	tmpls, err := loadTemplates()
	require.NoError(t, err)
	for name, tmpl := range tmpls {
		assert.NotNil(t, tmpl.Lookup("layout"), name)
		assert.NotNil(t, tmpl.Lookup("content"), name)
	}
}
