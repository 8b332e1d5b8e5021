package apiclient

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork        = errors.New("network failure")
	ErrHTTPStatus     = errors.New("http status failure")
	ErrUnexpectedBody = errors.New("unexpected response body")
)

// NetworkError reports a transport-level failure (DNS, refused connection,
// broken body read).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// StatusError is a non-2xx answer. Fallback is set when the failing answer
// came from the form-encoded retry of an auth request.
type StatusError struct {
	Code     int
	Status   string
	Body     string
	Fallback bool
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%d %s", e.Code, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
