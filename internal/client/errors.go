package client

import (
	"errors"
	"fmt"

	"github.com/osse101/CozyCasino_Go/internal/domain"
)

// Sentinels matched by the concrete gateway errors
var (
	ErrTransport = domain.ErrTransport
	ErrHTTP      = domain.ErrHTTP
)

// TransportError is returned when a request never produced a response
// (connection refused, DNS failure, cancelled context, ...)
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrMsgTransport, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// HTTPError is returned for any non-2xx response.
// Detail is the best-effort message from the response body, kept for logs.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s %s: status %d", ErrMsgHTTP, e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s: %s %s: status %d: %s", ErrMsgHTTP, e.Method, e.Path, e.Status, e.Detail)
}

// Is lets errors.Is(err, ErrHTTP) match
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an HTTPError
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
