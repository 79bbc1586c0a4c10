package tofu

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/netip"
	"slices"
	"strings"
)

// SignatureSchemes lists the handshake signature schemes the verifier
// accepts leaves for. crypto/tls checks the signatures themselves.
var SignatureSchemes = []tls.SignatureScheme{
	tls.PKCS1WithSHA256,
	tls.PKCS1WithSHA384,
	tls.PKCS1WithSHA512,
	tls.ECDSAWithP256AndSHA256,
	tls.ECDSAWithP384AndSHA384,
	tls.ECDSAWithP521AndSHA512,
	tls.Ed25519,
	tls.PSSWithSHA256,
	tls.PSSWithSHA384,
	tls.PSSWithSHA512,
}

// Verifier decides whether to trust a server certificate using a [Store].
type Verifier struct {
	store *Store
	log   *slog.Logger
}

type verifierOptions struct {
	logger *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*verifierOptions) error

// WithLogger sets the logger used to report pinning decisions.
func WithLogger(logger *slog.Logger) VerifierOption {
	return func(o *verifierOptions) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}

// NewVerifier returns a Verifier backed by store.
func NewVerifier(store *Store, optFns ...VerifierOption) (*Verifier, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	opts := verifierOptions{logger: slog.Default()}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	return &Verifier{store: store, log: opts.logger}, nil
}

// Verify accepts leaf for identity if the host is new or already pinned
// to the same certificate.
func (v *Verifier) Verify(leaf *x509.Certificate, identity string) error {
	if leaf == nil {
		return ErrNoCertificate
	}
	if err := checkIdentity(identity); err != nil {
		return err
	}
	if !supportsSignatureScheme(leaf.PublicKey) {
		return fmt.Errorf("%w: %s for %s", ErrUnsupportedKey, leaf.PublicKeyAlgorithm, identity)
	}

	fp := Fingerprint(leaf.Raw)

	decision, err := v.store.CheckAndLearn(identity, fp)
	if err != nil {
		v.log.Error("trust store", "host", identity, "error", err)
		return err
	}

	switch decision {
	case New:
		v.log.Info("pinned new host", "host", identity, "fingerprint", fp)
	case Mismatch:
		expected, _ := v.store.Lookup(identity)
		v.log.Warn("certificate mismatch", "host", identity, "pinned", expected, "got", fp)
		return &MismatchError{Host: identity, Expected: expected, Got: fp}
	default:
		v.log.Debug("certificate matches pin", "host", identity)
	}

	return nil
}

// VerifyConnection checks the leaf of cs against cs.ServerName. It fits
// [tls.Config.VerifyConnection].
func (v *Verifier) VerifyConnection(cs tls.ConnectionState) error {
	return v.verifyState(cs, cs.ServerName)
}

// TLSConfig returns a client config that trusts serverName through v
// instead of the system roots.
func (v *Verifier) TLSConfig(serverName string) *tls.Config {
	return &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
		VerifyConnection: func(cs tls.ConnectionState) error {
			return v.verifyState(cs, serverName)
		},
	}
}

func (v *Verifier) verifyState(cs tls.ConnectionState, identity string) error {
	if len(cs.PeerCertificates) == 0 {
		return ErrNoCertificate
	}
	return v.Verify(cs.PeerCertificates[0], identity)
}

// checkIdentity requires a DNS name.
func checkIdentity(identity string) error {
	name := strings.TrimSuffix(strings.TrimPrefix(identity, "["), "]")
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentity)
	}
	if _, err := netip.ParseAddr(name); err == nil {
		return fmt.Errorf("%w: %s is an IP address", ErrInvalidIdentity, identity)
	}
	if strings.ContainsAny(name, " /:") {
		return fmt.Errorf("%w: %q is not a DNS name", ErrInvalidIdentity, identity)
	}
	return nil
}

func supportsSignatureScheme(pub any) bool {
	return slices.ContainsFunc(schemesFor(pub), func(s tls.SignatureScheme) bool {
		return slices.Contains(SignatureSchemes, s)
	})
}

func schemesFor(pub any) []tls.SignatureScheme {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return []tls.SignatureScheme{
			tls.PSSWithSHA256, tls.PSSWithSHA384, tls.PSSWithSHA512,
			tls.PKCS1WithSHA256, tls.PKCS1WithSHA384, tls.PKCS1WithSHA512,
		}
	case *ecdsa.PublicKey:
		switch k.Curve.Params().Name {
		case "P-256":
			return []tls.SignatureScheme{tls.ECDSAWithP256AndSHA256}
		case "P-384":
			return []tls.SignatureScheme{tls.ECDSAWithP384AndSHA384}
		case "P-521":
			return []tls.SignatureScheme{tls.ECDSAWithP521AndSHA512}
		}
	case ed25519.PublicKey:
		return []tls.SignatureScheme{tls.Ed25519}
	}
	return nil
}
