package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/session"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// formErrorKey holds errors that belong to no single field.
const formErrorKey = "form"

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
	"datetime": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006 15:04")
	},
	"selected": func(a, b string) bool { return strings.EqualFold(a, b) },
}

// loadTemplates parses every page together with the shared layout.
func loadTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

// page is what every template receives.
type page struct {
	Title  string
	User   *types.SessionUser
	Flash  *actions.Notification
	Errors map[string]string
	Form   any
	Data   any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	tmpl, ok := s.templates[name]
	if !ok {
		logger.Error("unknown template", slog.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if p.User == nil {
		p.User, _ = session.UserFrom(r.Context())
	}
	p.Flash = s.flash.Pop(w, r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		logger.Error("failed to render page", slog.String("template", name), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderForm re-renders a form page after err: field errors inline, any
// other failure as a form-level message.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, name string, p page, err error) {
	errs := map[string]string{}
	var validation *forms.ValidationError
	if errors.As(err, &validation) {
		maps.Copy(errs, validation.Fields)
	} else {
		errs[formErrorKey] = userMessage(err)
	}
	p.Errors = errs
	s.render(w, r, HTTPStatus(err), name, p)
}

// fail handles an error on a page load. An expired or insufficient session
// goes to the denied page like any other gate rejection.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if api.IsAuthError(err) {
		http.Redirect(w, r, s.cfg.AccessDeniedPath, http.StatusSeeOther)
		return
	}
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("page failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	}
	s.render(w, r, status, "error", page{
		Title: http.StatusText(status),
		Data:  userMessage(err),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", slog.Any("err", err))
	}
}

// Pager renders one pagination control per page.
type Pager struct {
	Path    string
	Query   url.Values
	Page    int
	Pages   int
	Total   int
	Numbers []int
}

func newPager(path string, q listing.Query, total int) Pager {
	pages := listing.PageCount(total, q.Limit)
	params := q.Params()
	params.Del(listing.ParamPage)
	params.Del(listing.ParamLimit)
	return Pager{
		Path:    path,
		Query:   params,
		Page:    listing.ClampPage(q.Page, pages),
		Pages:   pages,
		Total:   total,
		Numbers: listing.Pages(total, q.Limit),
	}
}

// Href links to page n with the current search and filters.
func (p Pager) Href(n int) string {
	v := maps.Clone(p.Query)
	if v == nil {
		v = url.Values{}
	}
	v.Set(listing.ParamPage, strconv.Itoa(n))
	return p.Path + "?" + v.Encode()
}

func (p Pager) HasPrev() bool { return p.Page > 1 }

func (p Pager) HasNext() bool { return p.Page < p.Pages }

func (p Pager) Prev() int { return p.Page - 1 }

func (p Pager) Next() int { return p.Page + 1 }
