// Package server is the page server: it renders the job board's pages,
// forwards each browser session's cookies to the backend and relays the
// backend's session cookies back.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// ErrMissingResource indicates a path parameter named nothing the session
// can see.
type ErrMissingResource struct {
	Kind string
	ID   string
}

func (e *ErrMissingResource) Error() string {
	return e.Kind + " not found: " + e.ID
}

// ErrBadInput indicates a form value outside its allowed set.
type ErrBadInput struct {
	Field   string
	Message string
}

func (e *ErrBadInput) Error() string {
	return e.Field + " " + e.Message
}

// HTTPStatus returns the status a page responds with for err.
func HTTPStatus(err error) int {
	var (
		validation *forms.ValidationError
		transition *types.TransitionError
		missing    *ErrMissingResource
		badInput   *ErrBadInput
		apiErr     *api.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &badInput):
		return http.StatusBadRequest
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.As(err, &missing), errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	case errors.Is(err, api.ErrBackend), errors.Is(err, api.ErrTransport), errors.Is(err, api.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the text shown for err.
func userMessage(err error) string {
	var missing *ErrMissingResource
	if errors.As(err, &missing) {
		return "That " + missing.Kind + " could not be found."
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Something went wrong. Please try again."
	}
	return api.Message(err)
}
