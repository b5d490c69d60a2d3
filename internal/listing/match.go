package listing

import (
	"strings"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// MatchJob mirrors the backend job search for client-side paging: free text
// against title, company, location and skills, filters by exact value.
// Jobs that are not open never match.
func MatchJob(q Query) func(types.Job) bool {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	jobType := q.Filter(ParamType)
	mode := q.Filter(ParamMode)
	return func(j types.Job) bool {
		if !j.Open() {
			return false
		}
		if jobType != "" && !strings.EqualFold(j.Type, jobType) {
			return false
		}
		if mode != "" && !strings.EqualFold(j.Mode, mode) {
			return false
		}
		if search == "" {
			return true
		}
		haystack := strings.ToLower(strings.Join(append([]string{j.Title, j.CompanyName, j.Location}, j.Skills...), " "))
		return strings.Contains(haystack, search)
	}
}

// MatchCompany filters companies by field and by name.
func MatchCompany(q Query) func(types.Company) bool {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	field := q.Filter(ParamField)
	return func(c types.Company) bool {
		if field != "" && !strings.EqualFold(c.Field, field) {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(c.Name), search)
	}
}
