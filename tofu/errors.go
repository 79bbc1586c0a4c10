package tofu

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported trust store format")
	ErrCorruptStore       = errors.New("corrupt trust store")
	ErrPersist            = errors.New("persisting trust store")
	ErrMismatch           = errors.New("certificate fingerprint mismatch")
	ErrInvalidIdentity    = errors.New("invalid server identity")
	ErrInvalidFingerprint = errors.New("invalid certificate fingerprint")
	ErrUnsupportedKey     = errors.New("unsupported certificate key")
	ErrNoCertificate      = errors.New("no peer certificate")
	ErrNilStore           = errors.New("nil trust store")
)

// MismatchError reports a host presenting a certificate other than the
// one pinned for it.
type MismatchError struct {
	Host     string
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v for %s: pinned %s, got %s", ErrMismatch, e.Host, e.Expected, e.Got)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}
