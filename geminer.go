// Package geminer exposes the client builder.
//
// The pieces live in subpackages: [gemurl] parses and builds URLs,
// [response] parses server responses, [tofu] pins certificates and
// [client] ties them together over TLS.
package geminer

import (
	"github.com/adamwoolhether/geminer/client"
)

// NewClient instantiates a new *client.Client that pins server
// certificates in the trust store at knownHostsPath. Later options
// override earlier ones, so a WithTrustStore option replaces the path.
func NewClient(knownHostsPath string, opts ...client.Option) (*client.Client, error) {
	return client.Build(append([]client.Option{client.WithKnownHosts(knownHostsPath)}, opts...)...)
}
