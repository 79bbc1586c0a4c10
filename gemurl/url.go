package gemurl

import (
	"strconv"
	"strings"
)

const (
	// DefaultPort is the standard Gemini port. It is supplied on parse and
	// omitted on serialization.
	DefaultPort uint16 = 1965

	// DefaultPath is used when a URL has no path.
	DefaultPath = "/"
)

// Scheme identifies the URL scheme. The set is closed; see [SchemeGemini]
// and [SchemeAbout].
type Scheme string

const (
	// SchemeGemini is the primary scheme and the default when none is given.
	SchemeGemini Scheme = "gemini"
	// SchemeAbout addresses client-local pages and has no network authority.
	SchemeAbout Scheme = "about"
)

var schemes = []Scheme{SchemeGemini, SchemeAbout}

// Host is the network authority of a URL.
type Host struct {
	Name string
	Port uint16
}

// String renders the host as name:port.
func (h Host) String() string {
	return h.Name + ":" + strconv.FormatUint(uint64(h.Port), 10)
}

// URL is an immutable parsed reference. The zero value is not a valid URL;
// construct one with [Parse] or [Build]. URLs are comparable with ==.
type URL struct {
	scheme   Scheme
	host     Host
	hasHost  bool
	path     string
	query    string
	hasQuery bool
}

// Scheme returns the URL scheme.
func (u URL) Scheme() Scheme { return u.scheme }

// Host returns the authority and whether the URL has one.
func (u URL) Host() (Host, bool) { return u.host, u.hasHost }

// Hostname returns the host name, or "" when the URL has no authority.
func (u URL) Hostname() string { return u.host.Name }

// Path returns the path, never empty.
func (u URL) Path() string { return u.path }

// Query returns the raw query and whether one was present. A URL ending in
// "?" has an empty but present query.
func (u URL) Query() (string, bool) { return u.query, u.hasQuery }

// Equal reports whether u and o are the same URL.
func (u URL) Equal(o URL) bool { return u == o }

// String serializes the URL. The port is omitted when it is [DefaultPort].
func (u URL) String() string {
	var b strings.Builder
	b.WriteString(string(u.scheme))
	b.WriteByte(':')

	if u.hasHost {
		b.WriteString("//")
		b.WriteString(u.host.Name)
		if u.host.Port != DefaultPort {
			b.WriteByte(':')
			b.WriteString(strconv.FormatUint(uint64(u.host.Port), 10))
		}
	}

	if u.path == "" {
		b.WriteString(DefaultPath)
	} else {
		b.WriteString(u.path)
	}

	if u.hasQuery {
		b.WriteByte('?')
		b.WriteString(u.query)
	}

	return b.String()
}
