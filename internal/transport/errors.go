package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Transport errors.
//
// Design decision: We define sentinel errors rather than custom types
// because callers only need to tell failure classes apart with errors.Is.
// The one exception is StatusError, which keeps the status code at the
// bottom of the chain where failure reports look for the cause.
var (
	// ErrUnexpectedStatus is returned when a response status is not 2xx.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrInvalidProxy is returned when the proxy URL cannot be parsed or
	// lacks a host.
	ErrInvalidProxy = errors.New("invalid proxy URL")

	// ErrUnsupportedProxyScheme is returned for proxy schemes other than
	// http, https, socks5 and socks5h.
	ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme")

	// ErrTooManyRedirects is returned when a redirect chain exceeds the limit.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// StatusError reports a non-2xx response. It matches ErrUnexpectedStatus
// with errors.Is.
type StatusError struct {
	// Code is the HTTP status code of the response.
	Code int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.Code, http.StatusText(e.Code))
}

// Is reports whether target is ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
