package records

import (
	"errors"
	"net/http"
)

// ErrCorruptSnapshot is wrapped by reads whose stored snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

const CodePassengersNotPersisted = "PASSENGERS_NOT_PERSISTED"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func errPassengersNotPersisted(cause error) *Error {
	return &Error{
		Status:  http.StatusServiceUnavailable,
		Code:    CodePassengersNotPersisted,
		Message: "could not persist passengers",
		Err:     cause,
	}
}
