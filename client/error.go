package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrNoHost            = errors.New("url has no host")
	ErrRequestTooLong    = errors.New("request too long")
	ErrTransport         = errors.New("transport failure")
	ErrUntrusted         = errors.New("server certificate not trusted")
	ErrMalformedResponse = errors.New("malformed response")
	ErrResponseTooLarge  = errors.New("response too large")
)

// Error is returned for every failed request. Kind is one of the
// package's sentinel errors and Err, when set, is the underlying cause.
// errors.Is matches either.
type Error struct {
	Kind   error
	Host   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("gemini")
	if e.Host != "" {
		b.WriteString(" " + e.Host)
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
