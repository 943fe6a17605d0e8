// Package apperrors defines the error taxonomy shared by services and the HTTP
// layer. Every error carries the status/field/error triple the API reports, so
// handlers never build error bodies by hand.
package apperrors

import (
	"errors"
	"fmt"
)

// Validation reports a missing or malformed input field, or a persistence
// constraint violation (required, pattern, uniqueness).
type Validation struct {
	Field  string
	Reason string
}

func (e *Validation) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFound reports that a referenced session, campaign, invitation or file
// does not resolve.
type NotFound struct {
	Field string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s: unknown", e.Field)
}

// Forbidden reports that the session lacks the privilege required by the
// route. "Not invited" and "not creator" are deliberately indistinguishable.
type Forbidden struct {
	Field string
}

func (e *Forbidden) Error() string {
	return fmt.Sprintf("%s: forbidden", e.Field)
}

// Storage reports an object-store failure after metadata was already
// persisted. The underlying cause is kept for logs but never sent to clients.
type Storage struct {
	Err error
}

func (e *Storage) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *Storage) Unwrap() error { return e.Err }

// Response is the wire shape of every error body.
type Response struct {
	Status int    `json:"status"`
	Field  string `json:"field"`
	Error  string `json:"error"`
}

// HTTP maps any error from the service layer to its status code and body.
// Unknown errors are reported as a generic 500 without internals.
func HTTP(err error) (int, Response) {
	var (
		validation *Validation
		notFound   *NotFound
		forbidden  *Forbidden
		storage    *Storage
	)
	switch {
	case errors.As(err, &validation):
		return 400, Response{Status: 400, Field: validation.Field, Error: validation.Reason}
	case errors.As(err, &notFound):
		return 404, Response{Status: 404, Field: notFound.Field, Error: "unknown"}
	case errors.As(err, &forbidden):
		return 403, Response{Status: 403, Field: forbidden.Field, Error: "forbidden"}
	case errors.As(err, &storage):
		return 400, Response{Status: 400, Field: "storage", Error: "failure"}
	default:
		return 500, Response{Status: 500, Field: "server", Error: "internal"}
	}
}
