package airtable

import (
	"errors"
	"fmt"
)

// Each upstream failure mode maps to a distinct sentinel so callers can
// branch with errors.Is instead of matching on status codes or strings.
var (
	ErrConfig      = errors.New("airtable: invalid configuration")
	ErrAuth        = errors.New("airtable: unauthorized")
	ErrNotFound    = errors.New("airtable: record not found")
	ErrBadQuery    = errors.New("airtable: malformed query")
	ErrRateLimited = errors.New("airtable: rate limited")
	ErrTransient   = errors.New("airtable: transient upstream failure")
)

// APIError carries the HTTP status and upstream detail alongside the
// sentinel kind it unwraps to.
type APIError struct {
	Status int
	Type   string
	Detail string
	kind   error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("airtable: status %d (%s): %s", e.Status, e.Type, e.Detail)
	}
	return fmt.Sprintf("airtable: status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(status int, body apiErrorBody) *APIError {
	return &APIError{
		Status: status,
		Type:   body.Error.Type,
		Detail: body.Error.Message,
		kind:   kindForStatus(status),
	}
}

func kindForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrAuth
	case status == 404:
		return ErrNotFound
	case status == 422:
		return ErrBadQuery
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrTransient
	default:
		return ErrTransient
	}
}
