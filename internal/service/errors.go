package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Boundary layers map a Kind to their own
// status codes through lookup tables.
type Kind int

const (
	// KindInternal is an unexpected store or infrastructure failure. Its
	// message is never shown to callers.
	KindInternal Kind = iota
	// KindNotFound means the referenced user record or workout does not exist.
	KindNotFound
	// KindConflict means a uniqueness invariant would be violated.
	KindConflict
	// KindBadRequest means caller-supplied identifiers are inconsistent.
	KindBadRequest
	// KindValidation is a structural payload failure with per-field details.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation_failed"
	default:
		return "internal"
	}
}

// FieldError is one structural validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed error returned by WorkoutRecordService.
type Error struct {
	Kind    Kind
	Message string       // safe to return to callers
	Key     string       // identifying key (user ID or workout name), if any
	Fields  []FieldError // only for KindValidation
	Err     error        // underlying cause, internal only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(key, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Key: key, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(key, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Key: key, Message: fmt.Sprintf(format, args...)}
}

// BadRequest builds a KindBadRequest error.
func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// Validation carries per-field structural failures.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// KindOf returns the Kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
