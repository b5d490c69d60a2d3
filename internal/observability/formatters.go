// Package observability provides the boxed listing output used by the CLI.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow bounds lists nested inside a single record
	maxItemsToShow = 5
	// idWidth fits a backend object id
	idWidth = 24
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, inner), inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes; %-*s counts bytes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	shown := items[:min(len(items), maxItemsToShow)]
	fmt.Fprintf(sb, "%s %s", label, strings.Join(shown, ", "))
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, " (+%d more)", len(items)-maxItemsToShow)
	}
	sb.WriteString("\n")
}

// PrintUser outputs the signed-in identity.
func (p *Printer) PrintUser(u *types.SessionUser) {
	if u == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:     %s\n", u.Name)
	fmt.Fprintf(&sb, "Email:    %s\n", u.Email)
	fmt.Fprintf(&sb, "Role:     %s\n", u.Role)
	fmt.Fprintf(&sb, "ID:       %s", u.ID)
	if u.Role == types.RoleUser && !u.ProfileComplete {
		sb.WriteString("\n\nProfile incomplete: run `jobtracker profile submit`.")
	}
	p.printBox("SIGNED IN", sb.String())
}

// PrintJobs outputs one page of a job listing. page and pages are 1-based;
// pages of zero means the query matched nothing.
func (p *Printer) PrintJobs(jobs []types.Job, page, pages, total int) {
	var sb strings.Builder
	if total == 0 {
		sb.WriteString("No jobs match your search.")
		p.printBox("JOBS", sb.String())
		return
	}
	for i, j := range jobs {
		fmt.Fprintf(&sb, "%s  %s\n", j.ID, j.Title)
		fmt.Fprintf(&sb, "    %s · %s · %s · %s", j.CompanyName, j.Location, j.Type, j.Mode)
		if st := j.EffectiveStatus(); st != types.JobOpen {
			fmt.Fprintf(&sb, " [%s]", strings.ToLower(string(st)))
		}
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("JOBS  page %d of %d  (%d total)", page, pages, total), sb.String())
}

// PrintJob outputs one job in full.
func (p *Printer) PrintJob(j *types.Job) {
	if j == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:  %s\n", j.CompanyName)
	fmt.Fprintf(&sb, "Where:    %s (%s)\n", j.Location, j.Mode)
	fmt.Fprintf(&sb, "Type:     %s", j.Type)
	if j.Seniority != "" {
		fmt.Fprintf(&sb, ", %s", j.Seniority)
	}
	sb.WriteString("\n")
	if j.Salary != "" {
		fmt.Fprintf(&sb, "Salary:   %s\n", j.Salary)
	}
	fmt.Fprintf(&sb, "Status:   %s\n", j.EffectiveStatus())
	writeList(&sb, "Skills:  ", j.Skills)
	writeList(&sb, "Benefits:", j.Benefits)
	if j.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(j.Description)
	}
	p.printBox(strings.ToUpper(j.Title)+"  "+j.ID, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplications outputs applications newest first.
func (p *Printer) PrintApplications(title string, apps []types.Application) {
	if len(apps) == 0 {
		p.printBox(title, "No applications.")
		return
	}
	apps = slices.Clone(apps)
	slices.SortStableFunc(apps, func(a, b types.Application) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	var sb strings.Builder
	for i, a := range apps {
		label := a.JobID
		switch {
		case a.Job != nil:
			label = a.Job.Title
		case a.ApplicantName != "":
			label = a.ApplicantName
		}
		fmt.Fprintf(&sb, "%s  %-12s %s", a.ID, a.Status, label)
		if a.InterviewAt != nil {
			fmt.Fprintf(&sb, "\n    interview %s", a.InterviewAt.Format("2 Jan 2006 15:04"))
		}
		if i < len(apps)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(title, sb.String())
}

// PrintCompanies outputs a company list with each company's approval state.
func (p *Printer) PrintCompanies(title string, companies []types.Company) {
	if len(companies) == 0 {
		p.printBox(title, "No companies.")
		return
	}
	var sb strings.Builder
	for i, c := range companies {
		state := "pending"
		switch {
		case c.Blocked:
			state = "blocked"
		case c.Approved:
			state = "approved"
		case c.Rejected:
			state = "rejected"
		}
		// state and id lead so truncation only ever eats into the name
		fmt.Fprintf(&sb, "%-8s  %-*s  %s", state, idWidth, c.ID, c.Name)
		if c.Field != "" {
			fmt.Fprintf(&sb, " · %s", c.Field)
		}
		if i < len(companies)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(title, sb.String())
}

// PrintUsers outputs the admin user list.
func (p *Printer) PrintUsers(users []types.AdminUser) {
	if len(users) == 0 {
		p.printBox("USERS", "No users.")
		return
	}
	var sb strings.Builder
	for i, u := range users {
		state := "active"
		if u.Blocked {
			state = "blocked"
		}
		fmt.Fprintf(&sb, "%-7s  %-*s  %s\n", state, idWidth, u.ID, u.Name)
		fmt.Fprintf(&sb, "         %s · %s", u.Email, u.Role)
		if i < len(users)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("USERS", sb.String())
}

// PrintProfile outputs the reduced profile an administrator sees.
func (p *Printer) PrintProfile(v *types.AdminProfileView) {
	if v == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Email:    %s\n", v.Email)
	loc := v.Location.City
	if v.Location.State != "" {
		loc += ", " + v.Location.State
	}
	if v.Location.Country != "" {
		loc += ", " + v.Location.Country
	}
	fmt.Fprintf(&sb, "Location: %s\n", loc)
	fmt.Fprintf(&sb, "Headline: %s\n", v.Headline)
	writeList(&sb, "Skills:  ", v.Skills)
	if v.ResumeURL != "" {
		fmt.Fprintf(&sb, "Resume:   %s\n", v.ResumeURL)
	}
	p.printBox("PROFILE  "+v.Name, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs field errors from a rejected form.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(err *forms.ValidationError) {
	if err == nil || len(err.Fields) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ FORM IS VALID", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	keys := make([]string, 0, len(err.Fields))
	for k := range err.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d problems:\n\n", len(keys))
	for i, k := range keys {
		fmt.Fprintf(&sb, "⚠ %s\n", k)
		fmt.Fprintf(&sb, "  %s", err.Fields[k])
		if i < len(keys)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("FORM ERRORS", sb.String())
}
