package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped into a RejectionError when the backend answers 404.
var ErrNotFound = errors.New("not found")

var errEmpty = errors.New("must not be empty")

// NetworkError reports a transport, HTTP, JSON or schema failure. The
// response, if any, could not be trusted.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RejectionError reports a well-formed response with success=false.
type RejectionError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request rejected"
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 rejection.
func (e *RejectionError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}

// IsNetwork reports whether err is or wraps a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsRejection reports whether err is or wraps a RejectionError.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
