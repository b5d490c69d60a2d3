// Package profile implements the job seeker profile form: normalization,
// schema validation with per-field messages, and multipart submission.
package profile

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/schemas"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

//go:embed profile.schema.json
var schemaJSON []byte

var schema = schemas.MustCompile("profile", schemaJSON)

// ValidationError carries one message per failing field, keyed by dotted
// path such as location.city or experience.0.company.
type ValidationError = forms.ValidationError

// Multipart part names for the two attachments.
const (
	PartPhoto  = "profilePhoto"
	PartResume = "resume"
)

// Form is the profile form as entered. Skills is a comma separated string.
type Form struct {
	FirstName  string             `yaml:"first_name"`
	LastName   string             `yaml:"last_name"`
	Email      string             `yaml:"email"`
	Phone      string             `yaml:"phone"`
	Headline   string             `yaml:"headline"`
	Bio        string             `yaml:"bio"`
	Location   types.Location     `yaml:"location"`
	Skills     string             `yaml:"skills"`
	Experience []types.Experience `yaml:"experience"`
	Education  []types.Education  `yaml:"education"`
	Socials    types.Socials      `yaml:"socials"`

	Photo  *Attachment `yaml:"-"`
	Resume *Attachment `yaml:"-"`
}

// FromProfile prefills a form from a stored profile.
func FromProfile(p *types.Profile) Form {
	if p == nil {
		return Form{}
	}
	return Form{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Headline:   p.Headline,
		Bio:        p.Bio,
		Location:   p.Location,
		Skills:     strings.Join(p.Skills, ", "),
		Experience: p.Experience,
		Education:  p.Education,
		Socials:    p.Socials,
	}
}

// Normalize trims every input and splits the skills string into a list.
// Empty lists come back empty rather than nil so they encode as [].
func (f Form) Normalize() types.Profile {
	p := types.Profile{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
		Headline:  strings.TrimSpace(f.Headline),
		Bio:       strings.TrimSpace(f.Bio),
		Location: types.Location{
			City:    strings.TrimSpace(f.Location.City),
			State:   strings.TrimSpace(f.Location.State),
			Country: strings.TrimSpace(f.Location.Country),
		},
		Skills:     forms.SplitList(f.Skills),
		Experience: make([]types.Experience, 0, len(f.Experience)),
		Education:  make([]types.Education, 0, len(f.Education)),
		Socials: types.Socials{
			LinkedIn:  strings.TrimSpace(f.Socials.LinkedIn),
			GitHub:    strings.TrimSpace(f.Socials.GitHub),
			Portfolio: strings.TrimSpace(f.Socials.Portfolio),
		},
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	for _, e := range f.Experience {
		p.Experience = append(p.Experience, types.Experience{
			Company:     strings.TrimSpace(e.Company),
			Title:       strings.TrimSpace(e.Title),
			StartDate:   strings.TrimSpace(e.StartDate),
			EndDate:     strings.TrimSpace(e.EndDate),
			Description: strings.TrimSpace(e.Description),
		})
	}
	for _, e := range f.Education {
		p.Education = append(p.Education, types.Education{
			Institution: strings.TrimSpace(e.Institution),
			Degree:      strings.TrimSpace(e.Degree),
			Field:       strings.TrimSpace(e.Field),
			StartYear:   strings.TrimSpace(e.StartYear),
			EndYear:     strings.TrimSpace(e.EndYear),
		})
	}
	return p
}

// Validate checks the normalized form against the profile schema and the
// attachment rules. Failures are returned as *ValidationError.
func (f Form) Validate() error {
	fields := map[string]string{}

	err := schema.Validate(f.Normalize())
	var schemaErr *schemas.ValidationError
	switch {
	case errors.As(err, &schemaErr):
		for k, v := range schemaErr.Fields() {
			fields[k] = v
		}
	case err != nil:
		return err
	}

	if msg := f.Photo.check(photoRule); msg != "" {
		fields[PartPhoto] = msg
	}
	if msg := f.Resume.check(resumeRule); msg != "" {
		fields[PartResume] = msg
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Multipart validates the form and encodes it: scalar fields as text parts,
// structured fields as JSON text parts and attachments as file parts.
func (f Form) Multipart() (*api.Multipart, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p := f.Normalize()

	body := &api.Multipart{Fields: map[string]string{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"email":     p.Email,
		"phone":     p.Phone,
		"headline":  p.Headline,
		"bio":       p.Bio,
	}}
	structured := map[string]any{
		"location":   p.Location,
		"skills":     p.Skills,
		"experience": p.Experience,
		"education":  p.Education,
		"socials":    p.Socials,
	}
	for name, v := range structured {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		body.Fields[name] = string(encoded)
	}

	if f.Photo != nil {
		body.Files = append(body.Files, f.Photo.part(PartPhoto))
	}
	if f.Resume != nil {
		body.Files = append(body.Files, f.Resume.part(PartResume))
	}
	return body, nil
}

// Submitter sends an encoded profile to the backend.
type Submitter interface {
	SubmitProfile(ctx context.Context, body *api.Multipart) (string, error)
}

// Submit validates and, only if the form is valid, sends it. It returns the
// backend's message.
func (f Form) Submit(ctx context.Context, s Submitter) (string, error) {
	body, err := f.Multipart()
	if err != nil {
		return "", err
	}
	return s.SubmitProfile(ctx, body)
}
