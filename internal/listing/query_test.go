package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParams_SearchAndType(t *testing.T) {
	q := Query{Search: "engineer"}.
		WithFilter(ParamType, "Full-time").
		WithFilter(ParamMode, "all")

	params := q.Params()
	assert.Equal(t, "search=engineer&type=Full-time", params.Encode())
	_, hasMode := params[ParamMode]
	assert.False(t, hasMode)
}

func TestQueryParams_SentinelClearsFilter(t *testing.T) {
	q := Query{}.WithFilter(ParamField, "Finance")
	assert.Equal(t, "Finance", q.Filter(ParamField))

	for _, sentinel := range []string{"all", "ALL", " All ", ""} {
		cleared := q.WithFilter(ParamField, sentinel)
		assert.Empty(t, cleared.Filter(ParamField), sentinel)
		assert.Empty(t, cleared.Params().Get(ParamField), sentinel)
	}

	// the original query is untouched
	assert.Equal(t, "Finance", q.Filter(ParamField))
}

func TestQueryParams_SentinelInRawFilters(t *testing.T) {
	q := Query{Filters: map[string]string{ParamType: "all", ParamMode: "Remote"}}
	assert.Equal(t, "jobMode=Remote", q.Params().Encode())
}

func TestQueryParams_PageAndLimit(t *testing.T) {
	q := Query{Search: "  go  ", Page: 2, Limit: 6}
	params := q.Params()
	assert.Equal(t, "go", params.Get(ParamSearch))
	assert.Equal(t, "2", params.Get(ParamPage))
	assert.Equal(t, "6", params.Get(ParamLimit))

	assert.Empty(t, Query{}.Params())
}

func TestQueryFromValues(t *testing.T) {
	values := url.Values{
		"search":  {" data "},
		"type":    {"Contract"},
		"jobMode": {"all"},
		"page":    {"3"},
		"limit":   {"bad"},
	}

	q := QueryFromValues(values, ParamType, ParamMode)
	assert.Equal(t, "data", q.Search)
	assert.Equal(t, "Contract", q.Filter(ParamType))
	assert.Empty(t, q.Filter(ParamMode))
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 0, q.Limit)

	assert.Equal(t, 1, QueryFromValues(url.Values{"page": {"-4"}}).Page)
}
