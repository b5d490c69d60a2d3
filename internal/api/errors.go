package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds, matched with errors.Is.
var (
	ErrUnauthorized = errors.New("not authenticated")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBackend      = errors.New("backend rejected request")
	ErrTransport    = errors.New("backend unreachable")
	ErrDecode       = errors.New("malformed backend response")
)

// Error describes a failed backend call.
type Error struct {
	Op      string // client operation, e.g. "CheckMe"
	Status  int    // HTTP status, 0 when the request never completed
	Message string // backend "message" field when present
	Kind    error  // one of the Err* kinds
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the error kind so callers can write errors.Is(err, api.ErrNotFound).
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// UserMessage returns text suitable for a notification.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case ErrUnauthorized:
		return "Please log in to continue."
	case ErrForbidden:
		return "You do not have permission to do that."
	case ErrNotFound:
		return "Not found."
	case ErrTransport:
		return "The server could not be reached. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// Message extracts a user-facing message from any error.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrBackend
	}
}
