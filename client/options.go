package client

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/geminer/client/throttle"
	"github.com/adamwoolhether/geminer/tofu"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	logger          *slog.Logger
	tracer          trace.Tracer
	timeout         *time.Duration
	dialer          throttle.Dialer
	throttle        *throttleConfig
	store           *tofu.Store
	knownHosts      string
	maxResponseSize int64
}

type throttleConfig struct {
	rps   int
	burst int
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used for request spans. Default is a no-op
// tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithTimeout bounds each request from dial to the last byte read. Zero
// disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithDialer replaces the [net.Dialer] used to open TCP connections.
func WithDialer(d throttle.Dialer) Option {
	return func(c *options) error {
		if d == nil {
			return errors.New("dialer must not be nil")
		}
		c.dialer = d
		return nil
	}
}

// WithThrottle limits new connections to rps per second with the given
// burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttleConfig{rps: rps, burst: burst}
		return nil
	}
}

// WithTrustStore uses an already loaded store for certificate pinning.
func WithTrustStore(store *tofu.Store) Option {
	return func(c *options) error {
		if store == nil {
			return tofu.ErrNilStore
		}
		c.store = store
		return nil
	}
}

// WithKnownHosts loads the trust store at path during [Build].
func WithKnownHosts(path string) Option {
	return func(c *options) error {
		if path == "" {
			return errors.New("known hosts path must not be empty")
		}
		c.knownHosts = path
		return nil
	}
}

// WithMaxResponseSize fails responses larger than n bytes. Zero means no
// limit.
func WithMaxResponseSize(n int64) Option {
	return func(c *options) error {
		if n < 0 {
			return errors.New("max response size must not be negative")
		}
		c.maxResponseSize = n
		return nil
	}
}
