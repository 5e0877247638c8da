// Package apperr defines the domain error taxonomy shared by the slot store,
// the status tracker and the booking coordinator, plus the mapping to HTTP
// status codes used at the controller boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindValidation marks malformed or past-dated input
	KindValidation Kind = iota + 1
	// KindNotFound marks an unknown candidate/slot/stage reference
	KindNotFound
	// KindConflict marks double-booking, deleting a booked slot, or a terminal stage
	KindConflict
)

// Error is a domain error with a classification kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Validation creates a KindValidation error.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict creates a KindConflict error.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return Is(err, KindValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return Is(err, KindNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return Is(err, KindConflict) }

// HTTPStatus maps a domain error to the status code the handlers respond with.
// Unclassified errors map to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
