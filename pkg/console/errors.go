package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotLoggedIn    = errors.New("console: not logged in")
	ErrSessionExpired = errors.New("console: session expired, please log in again")
	ErrNoDashboard    = errors.New("console: this account has no access to the merchant or admin dashboard")

	// ErrStaleResponse is returned for a list response overtaken by a newer request
	ErrStaleResponse = errors.New("console: stale list response discarded")

	// ErrTooManyImages and ErrImageTooLarge abort a submission as a whole
	ErrTooManyImages = errors.New("console: too many images")
	ErrImageTooLarge = errors.New("console: image too large")
)

// ValidationError is a client-side input failure. No request was sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// TransportError means the server could not be reached or did not answer in time
type TransportError struct {
	Op      string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time
func (e *TransportError) Timeout() bool {
	return e.Message == msgTimeout
}

// APIError is a business failure reported by the server envelope
type APIError struct {
	Code      int    // envelope code, usually the HTTP status
	ErrorCode string // machine code such as WORKFLOW_COMMENT_REQUIRED
	Message   string
	Fields    map[string]string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Code, e.ErrorCode)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// IsAPIError reports whether err is an APIError carrying errorCode
func IsAPIError(err error, errorCode string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == errorCode
}
