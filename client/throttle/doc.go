// Package throttle provides a [Dialer] that rate-limits outbound
// connections using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// # Usage
//
// Wrap an existing dialer with [NewDialer]:
//
//	d, err := throttle.NewDialer(
//		2, // dials per second
//		4, // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		&net.Dialer{},
//	)
//
// When the rate limit is exceeded, dials block until a token becomes
// available or the dial context is cancelled. Nothing is retried.
package throttle
