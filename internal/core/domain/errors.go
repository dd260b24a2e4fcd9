package domain

import (
	"errors"
	"fmt"
)

// Error kinds reported by the API access layer.
var (
	ErrAuthRejected     = errors.New("authentication rejected")
	ErrRequestFailed    = errors.New("request failed")
	ErrNetwork          = errors.New("network error")
	ErrMalformedSession = errors.New("malformed session token")
)

// Client-side validation failures. No request is sent when one of these is returned.
var (
	ErrSelectionRequired  = errors.New("property and category must be selected")
	ErrTechnicianRequired = errors.New("technician must be selected")
	ErrNotPermitted       = errors.New("action not permitted for role")
	ErrJobClosed          = errors.New("job is completed")
	ErrInvalidStatus      = errors.New("invalid job status")
	ErrQueryRequired      = errors.New("lookup query is required")
	ErrPropertyNotFound   = errors.New("property not in lookup results")
	ErrInvalidInput       = errors.New("invalid input")
)

// APIError is returned by the API access layer for every failed call.
// errors.Is matches it against its Kind.
type APIError struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status > 0 && e.Message != "":
		return fmt.Sprintf("%v: status=%d: %s", e.Kind, e.Status, e.Message)
	case e.Status > 0:
		return fmt.Sprintf("%v: status=%d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *APIError) Is(target error) bool { return target == e.Kind }

func (e *APIError) Unwrap() error { return e.Err }

// ValidationError carries a human-readable validation message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// UserMessage converts err into the text shown next to a form or listing.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	switch {
	case errors.Is(err, ErrSelectionRequired):
		return "A property and category must be selected."
	case errors.Is(err, ErrTechnicianRequired):
		return "Please select a technician."
	case errors.Is(err, ErrNotPermitted):
		return "You are not allowed to perform this action."
	case errors.Is(err, ErrJobClosed):
		return "Completed jobs cannot change status."
	case errors.Is(err, ErrInvalidStatus):
		return "Please choose a valid status."
	case errors.Is(err, ErrQueryRequired):
		return "Enter a phone number, ERF number, address or account number."
	case errors.Is(err, ErrPropertyNotFound):
		return "The selected property is no longer in the search results."
	case errors.Is(err, ErrAuthRejected):
		return "Your session has ended. Please log in again."
	case errors.Is(err, ErrNetwork):
		return "A network error occurred."
	}

	var ae *APIError
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae.Message
		}
		if ae.Status > 0 {
			return fmt.Sprintf("Request failed with status %d.", ae.Status)
		}
	}
	return "An unknown error occurred."
}
