package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/forms"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "validation", err: &forms.ValidationError{Fields: map[string]string{"email": "is required"}}, expected: http.StatusUnprocessableEntity},
		{name: "bad input", err: &ErrBadInput{Field: "status", Message: "must be Open or Closed"}, expected: http.StatusBadRequest},
		{name: "transition", err: fmt.Errorf("application.withdraw: %w", &types.TransitionError{From: types.StatusHired, To: types.StatusWithdrawn}), expected: http.StatusConflict},
		{name: "missing", err: &ErrMissingResource{Kind: "application", ID: "A9"}, expected: http.StatusNotFound},
		{name: "backend not found", err: &api.Error{Op: "JobDetails", Status: 404, Kind: api.ErrNotFound}, expected: http.StatusNotFound},
		{name: "unauthorized", err: &api.Error{Op: "CheckMe", Status: 401, Kind: api.ErrUnauthorized}, expected: http.StatusUnauthorized},
		{name: "forbidden", err: &api.Error{Op: "AdminUsers", Status: 403, Kind: api.ErrForbidden}, expected: http.StatusForbidden},
		{name: "backend conflict", err: &api.Error{Op: "Apply", Status: 409, Kind: api.ErrBackend, Message: "Already applied"}, expected: http.StatusConflict},
		{name: "backend 500", err: &api.Error{Op: "ListJobs", Status: 500, Kind: api.ErrBackend}, expected: http.StatusBadGateway},
		{name: "transport", err: &api.Error{Op: "ListJobs", Kind: api.ErrTransport, Cause: assert.AnError}, expected: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, expected: http.StatusGatewayTimeout},
		{name: "unknown", err: assert.AnError, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Already applied", userMessage(&api.Error{Op: "Apply", Status: 409, Kind: api.ErrBackend, Message: "Already applied"}))
	assert.Equal(t, "That job could not be found.", userMessage(&ErrMissingResource{Kind: "job", ID: "J1"}))
	assert.Equal(t, "Something went wrong. Please try again.", userMessage(assert.AnError))
}
