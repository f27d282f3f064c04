package hndigest

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EINTERNAL = "internal"

	// ENETWORK marks a transport failure: the request never got a response.
	ENETWORK = "network"
	// EFETCH marks a response with a non-success HTTP status.
	EFETCH = "fetch"
	// EPARSE marks a failure to fetch or parse an article.
	EPARSE = "parse"
	// ESUMMARY marks a failed call to the summary endpoint.
	ESUMMARY = "summary"
)

// Error represents an application-specific error. Status holds the HTTP
// status code for EFETCH and ESUMMARY errors when one is known.
type Error struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// StatusErrorf is like Errorf but also records an HTTP status code.
func StatusErrorf(code string, status int, format string, args ...any) *Error {
	e := Errorf(code, format, args...)
	e.Status = status
	return e
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return their own error text.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ErrorStatus returns the HTTP status recorded on an application error,
// or 0 when there is none.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
