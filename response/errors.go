package response

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStatus   = errors.New("unknown status code")
	ErrMalformedHeader = errors.New("malformed header line")
	ErrUnknownMIMEType = errors.New("unknown mime type")
	ErrUnknownCharset  = errors.New("unknown charset")
	ErrTrailingInput   = errors.New("unexpected input after header")
)

// ParseError reports why and where a response could not be parsed.
type ParseError struct {
	Offset int
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse response at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("parse response at offset %d: %v: %s", e.Offset, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
