package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/profile"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/session"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// maxProfileUpload bounds the whole multipart body held in memory.
const maxProfileUpload = profile.MaxPhotoSize + profile.MaxResumeSize + 1<<20

type profileView struct {
	Form       profile.Form
	Experience []types.Experience
	Education  []types.Education
	PhotoURL   string
	ResumeURL  string
}

// newProfileView adds one blank experience and education row for entry.
func newProfileView(f profile.Form, stored *types.Profile) profileView {
	v := profileView{
		Form:       f,
		Experience: append(slices.Clone(f.Experience), types.Experience{}),
		Education:  append(slices.Clone(f.Education), types.Education{}),
	}
	if stored != nil {
		v.PhotoURL, v.ResumeURL = stored.PhotoURL, stored.ResumeURL
	}
	return v
}

func (s *Server) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	stored, err := s.client.GetProfile(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	form := profile.FromProfile(stored)
	if stored == nil {
		if user, ok := session.UserFrom(r.Context()); ok {
			form.Email = user.Email
			form.FirstName, form.LastName, _ = strings.Cut(user.Name, " ")
		}
	}
	s.render(w, r, http.StatusOK, "profile", page{Title: "Your profile", Data: newProfileView(form, stored)})
}

// handleProfile validates the submitted profile and only then sends it to
// the backend as multipart form data.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProfileUpload+1<<20)
	form, err := profileFromRequest(r)
	if err != nil {
		s.renderProfile(w, r, form, err)
		return
	}
	msg, err := form.Submit(r.Context(), s.client)
	if err != nil {
		s.renderProfile(w, r, form, err)
		return
	}
	s.succeed(w, r, msg, "Profile saved", "/jobs")
}

// renderProfile re-renders a rejected submission. The stored profile is
// fetched again so the current photo and resume links stay on the page.
func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, form profile.Form, err error) {
	stored, gerr := s.client.GetProfile(r.Context())
	if gerr != nil {
		logger.Warn("failed to reload stored profile", slog.String("error", gerr.Error()))
		stored = nil
	}
	s.renderForm(w, r, "profile", page{Title: "Your profile", Data: newProfileView(form, stored)}, err)
}

// profileFromRequest reads the profile form. Repeated sections use
// indexed names such as experience.0.company; rows left entirely blank are
// dropped.
func profileFromRequest(r *http.Request) (profile.Form, error) {
	if err := r.ParseMultipartForm(maxProfileUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return profile.Form{}, &ErrBadInput{Field: "form", Message: "could not be read: " + err.Error()}
	}
	v := r.PostForm
	f := profile.Form{
		FirstName: v.Get("firstName"),
		LastName:  v.Get("lastName"),
		Email:     v.Get("email"),
		Phone:     v.Get("phone"),
		Headline:  v.Get("headline"),
		Bio:       v.Get("bio"),
		Location: types.Location{
			City:    v.Get("location.city"),
			State:   v.Get("location.state"),
			Country: v.Get("location.country"),
		},
		Skills: v.Get("skills"),
		Socials: types.Socials{
			LinkedIn:  v.Get("socials.linkedin"),
			GitHub:    v.Get("socials.github"),
			Portfolio: v.Get("socials.portfolio"),
		},
	}

	for _, i := range rowIndexes(v, "experience") {
		get := rowGetter(v, "experience", i)
		e := types.Experience{
			Company:     get("company"),
			Title:       get("title"),
			StartDate:   get("startDate"),
			EndDate:     get("endDate"),
			Description: get("description"),
		}
		if e != (types.Experience{}) {
			f.Experience = append(f.Experience, e)
		}
	}
	for _, i := range rowIndexes(v, "education") {
		get := rowGetter(v, "education", i)
		e := types.Education{
			Institution: get("institution"),
			Degree:      get("degree"),
			Field:       get("field"),
			StartYear:   get("startYear"),
			EndYear:     get("endYear"),
		}
		if e != (types.Education{}) {
			f.Education = append(f.Education, e)
		}
	}

	var err error
	if f.Photo, err = formAttachment(r, profile.PartPhoto, profile.MaxPhotoSize); err != nil {
		return f, err
	}
	if f.Resume, err = formAttachment(r, profile.PartResume, profile.MaxResumeSize); err != nil {
		return f, err
	}
	return f, nil
}

// rowIndexes returns the sorted row numbers present under prefix.
func rowIndexes(v url.Values, prefix string) []int {
	var idx []int
	for key := range v {
		rest, ok := strings.CutPrefix(key, prefix+".")
		if !ok {
			continue
		}
		num, _, _ := strings.Cut(rest, ".")
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 || slices.Contains(idx, n) {
			continue
		}
		idx = append(idx, n)
	}
	slices.Sort(idx)
	return idx
}

func rowGetter(v url.Values, prefix string, i int) func(string) string {
	return func(field string) string {
		return strings.TrimSpace(v.Get(fmt.Sprintf("%s.%d.%s", prefix, i, field)))
	}
}

// formAttachment reads an optional uploaded file.
func formAttachment(r *http.Request, name string, limit int64) (*profile.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[name]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	return profile.NewAttachment(headers[0].Filename, f, limit)
}
