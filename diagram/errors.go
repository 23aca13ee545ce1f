package diagram

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of a rejected or reported operation.
type ErrorKind string

const (
	// KindInvalidEndpoint marks an edge that references a missing node.
	KindInvalidEndpoint ErrorKind = "INVALID_ENDPOINT"

	// KindConflict marks an operation that collides with existing state.
	KindConflict ErrorKind = "CONFLICT"

	// KindNotFound marks a reference to an entity that does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindValidation marks malformed input such as a bad snapshot.
	KindValidation ErrorKind = "VALIDATION_ERROR"

	// KindDegenerateResize is informational: the requested size was clamped.
	KindDegenerateResize ErrorKind = "DEGENERATE_RESIZE"

	// KindHistory marks undo/redo requests at a history boundary.
	KindHistory ErrorKind = "HISTORY"

	// KindState marks operations that are not allowed in the current mode.
	KindState ErrorKind = "STATE"
)

// Error is a rejection reason returned by mutation entry points. Callers
// match it with errors.Is against the sentinels below.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]interface{}
	Cause   error
}

// NewError creates a new error of the given kind.
func NewError(kind ErrorKind, code, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
}

// WithDetail returns a copy of e carrying an extra detail. Sentinels are
// shared, so they are never mutated in place.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	out := *e
	out.Details = make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		out.Details[k] = v
	}
	out.Details[key] = value
	return &out
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
}

// Is matches on Kind and Code so copies made by WithDetail still match their
// sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

var (
	ErrInvalidEndpoint = NewError(KindInvalidEndpoint, "INVALID_ENDPOINT", "edge endpoint does not reference an existing node")
	ErrDuplicateID     = NewError(KindConflict, "DUPLICATE_ID", "an entity with this id already exists")
	ErrDuplicateEdge   = NewError(KindConflict, "DUPLICATE_EDGE", "an identical edge already exists")
	ErrNodeNotFound    = NewError(KindNotFound, "NODE_NOT_FOUND", "node not found")
	ErrEdgeNotFound    = NewError(KindNotFound, "EDGE_NOT_FOUND", "edge not found")
	ErrInvalidSnapshot = NewError(KindValidation, "INVALID_SNAPSHOT", "snapshot failed validation")
	ErrInvalidShape    = NewError(KindValidation, "INVALID_SHAPE", "unknown shape kind")
	ErrInvalidHandle   = NewError(KindValidation, "INVALID_HANDLE", "unknown handle")
	ErrInvalidGeometry = NewError(KindValidation, "INVALID_GEOMETRY", "node position and size must be finite")

	ErrDegenerateResize = NewError(KindDegenerateResize, "CLAMPED", "requested bounds below minimum size were clamped")

	ErrHistoryUnderflow = NewError(KindHistory, "UNDERFLOW", "nothing to undo")
	ErrHistoryOverflow  = NewError(KindHistory, "OVERFLOW", "nothing to redo")
	ErrHistoryTruncated = NewError(KindHistory, "TRUNCATED", "older history entries were dropped")

	ErrBusy = NewError(KindState, "BUSY", "operation not allowed during an active gesture")
)

// IsRejection reports whether err is one of the package's typed errors that
// leave the document unchanged.
func IsRejection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind != KindDegenerateResize
}
