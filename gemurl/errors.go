package gemurl

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty               = errors.New("empty url")
	ErrInvalidHostname     = errors.New("invalid hostname")
	ErrInvalidPort         = errors.New("invalid port")
	ErrTrailingInput       = errors.New("unexpected trailing input")
	ErrUnexpectedAuthority = errors.New("scheme takes no authority")
)

// ParseError reports where in the input a parse failed.
type ParseError struct {
	Input  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse url %q at offset %d: %v", e.Input, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
