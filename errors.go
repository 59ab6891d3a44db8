package antrean

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure scenarios
var (
	// ErrRateLimited is returned when a request is denied by the local rate limiter
	ErrRateLimited = errors.New("antrean: rate limited")

	// ErrStoreClosed is returned when operating on a closed resource store
	ErrStoreClosed = errors.New("antrean: resource store closed")
)

// Kind classifies a normalized failure. The string values are stable and
// shared with the backend's error vocabulary.
type Kind string

const (
	KindNetwork    Kind = "NETWORK_ERROR"
	KindValidation Kind = "VALIDATION_ERROR"
	KindAuth       Kind = "AUTH_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindServer     Kind = "SERVER_ERROR"
	KindUnknown    Kind = "UNKNOWN_ERROR"
)

// unknownErrorMessage is the fixed fallback for inputs that carry no usable message.
const unknownErrorMessage = "An unknown error occurred"

// APIError is the wire shape error responses surface:
// {message, code, status, details?}. It is what Normalize consumes for
// classified failures.
type APIError struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Error is the canonical normalized failure. Every pipeline failure is
// converted to exactly one Error before it reaches callers; Timestamp is set
// at normalization time and never mutated afterwards.
type Error struct {
	Kind       Kind
	Message    string
	Code       string
	StatusCode int
	Details    map[string]any
	Timestamp  time.Time
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error kinds for errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Kind == targetErr.Kind
	}
	return false
}

// Normalize maps any failure value to a single canonical *Error. It is pure,
// never panics, and is idempotent: an already normalized error passes
// through unchanged so its Timestamp is preserved.
func Normalize(input any) *Error {
	now := time.Now()

	switch v := input.(type) {
	case nil:
		return &Error{Kind: KindUnknown, Message: unknownErrorMessage, Timestamp: now}
	case *Error:
		if v == nil {
			return &Error{Kind: KindUnknown, Message: unknownErrorMessage, Timestamp: now}
		}
		return v
	case *APIError:
		if v == nil {
			return &Error{Kind: KindUnknown, Message: unknownErrorMessage, Timestamp: now}
		}
		return fromAPIError(v, now)
	case APIError:
		return fromAPIError(&v, now)
	case error:
		var norm *Error
		if errors.As(v, &norm) {
			return norm
		}
		var apiErr *APIError
		if errors.As(v, &apiErr) {
			e := fromAPIError(apiErr, now)
			e.Cause = v
			return e
		}
		return &Error{Kind: KindUnknown, Message: v.Error(), Timestamp: now, Cause: v}
	default:
		return &Error{Kind: KindUnknown, Message: unknownErrorMessage, Timestamp: now}
	}
}

func fromAPIError(apiErr *APIError, now time.Time) *Error {
	return &Error{
		Kind:       KindForStatus(apiErr.Status),
		Message:    apiErr.Message,
		Code:       apiErr.Code,
		StatusCode: apiErr.Status,
		Details:    apiErr.Details,
		Timestamp:  now,
	}
}

// KindForStatus derives the error kind from an HTTP status code. A zero or
// otherwise unclassifiable status means the request never produced a usable
// response and is treated as a network failure.
func KindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindNetwork
	}
}

// IsTransient reports whether an error represents a failure that might
// succeed on retry: network errors, 5xx responses, and 429 rate limiting.
// Client-caused failures (auth, validation, not found) are terminal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var norm *Error
	if errors.As(err, &norm) {
		switch norm.Kind {
		case KindNetwork, KindServer:
			return true
		case KindValidation:
			return norm.StatusCode == 429
		default:
			return false
		}
	}
	return false
}
