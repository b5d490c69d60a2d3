// Package listing implements the search, filter and paginate data source
// shared by the job and company listings.
package listing

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// AllSentinel is the filter value meaning "no filter".
const AllSentinel = "all"

// Standard parameter names understood by the search endpoint.
const (
	ParamSearch = "search"
	ParamType   = "type"
	ParamMode   = "jobMode"
	ParamField  = "field"
	ParamPage   = "page"
	ParamLimit  = "limit"
)

// IsSentinel reports whether v clears a filter.
func IsSentinel(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllSentinel)
}

// Query is a listing request: free text, discrete filters and a page.
type Query struct {
	Search  string
	Filters map[string]string
	Page    int
	Limit   int
}

// WithFilter returns a copy of q with key set to value, or removed when
// value is the sentinel.
func (q Query) WithFilter(key, value string) Query {
	out := q
	out.Filters = maps.Clone(q.Filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	if IsSentinel(value) {
		delete(out.Filters, key)
	} else {
		out.Filters[key] = strings.TrimSpace(value)
	}
	return out
}

// Filter returns the active value for key, or "" when unset.
func (q Query) Filter(key string) string {
	return q.Filters[key]
}

// Params encodes q as request parameters. Empty values and sentinel filters
// are left out entirely rather than sent as strings; page and limit are only
// sent when positive.
func (q Query) Params() url.Values {
	params := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set(ParamSearch, s)
	}
	for _, key := range slices.Sorted(maps.Keys(q.Filters)) {
		if v := q.Filters[key]; !IsSentinel(v) {
			params.Set(key, strings.TrimSpace(v))
		}
	}
	if q.Page > 0 {
		params.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set(ParamLimit, strconv.Itoa(q.Limit))
	}
	return params
}

// QueryFromValues parses request parameters back into a Query. filterKeys
// lists which parameters are discrete filters.
func QueryFromValues(values url.Values, filterKeys ...string) Query {
	q := Query{Search: strings.TrimSpace(values.Get(ParamSearch))}
	for _, key := range filterKeys {
		q = q.WithFilter(key, values.Get(key))
	}
	q.Page = positiveInt(values.Get(ParamPage), 1)
	q.Limit = positiveInt(values.Get(ParamLimit), 0)
	return q
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
