// Package forms validates submitted form payloads and turns their loose
// inputs (comma separated lists) into backend request bodies.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// ValidationError maps field names to a message for each failing field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	return v
}

// fieldName reports a struct field by its JSON name. Fields hidden from JSON
// fall back to the lower-camel Go name.
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		r := []rune(f.Name)
		r[0] = unicode.ToLower(r[0])
		return string(r)
	}
	return name
}

// Validate checks v's validate tags. Failures come back as a
// *ValidationError keyed by JSON field name.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "does not match"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid"
	}
}

// SplitList turns "go, sql,,  docker " into [go sql docker]. Duplicates keep
// their first position.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}

// JobPost validates req and converts it to the backend payload.
func JobPost(req types.JobPostRequest) (types.NewJob, error) {
	if err := Validate(req); err != nil {
		return types.NewJob{}, err
	}
	job := types.NewJob{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Type:        req.Type,
		Mode:        req.Mode,
		Seniority:   req.Seniority,
		Salary:      strings.TrimSpace(req.Salary),
		Skills:      SplitList(req.Skills),
		Benefits:    SplitList(req.Benefits),
		Tags:        SplitList(req.Tags),
	}
	if len(job.Skills) == 0 {
		return types.NewJob{}, &ValidationError{Fields: map[string]string{"skills": "is required"}}
	}
	return job, nil
}
