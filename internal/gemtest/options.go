package gemtest

import (
	"crypto/tls"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	cert        *tls.Certificate
	logger      *slog.Logger
	readTimeout time.Duration
	hosts       []string
}

// WithCertificate serves cert instead of a freshly generated one.
func WithCertificate(cert tls.Certificate) Option {
	return func(opts *options) {
		opts.cert = &cert
	}
}

// WithHosts sets the DNS names of the generated certificate. Default is
// "gemini.test".
func WithHosts(hosts ...string) Option {
	return func(opts *options) {
		opts.hosts = hosts
	}
}

// WithLogger sets the logger for connection errors. Default is
// slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = log
	}
}

// WithReadTimeout bounds the handshake and request line read. Default is
// 5s.
func WithReadTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.readTimeout = d
	}
}
