package client

import (
	"fmt"
	"net"
	"strconv"

	"github.com/adamwoolhether/geminer/gemurl"
)

// MaxRequestLength is the longest URL a request may carry, in bytes,
// not counting the CRLF terminator.
const MaxRequestLength = 1024

// Request is a single Gemini request.
type Request struct {
	url  gemurl.URL
	host gemurl.Host
	line string
}

// NewRequest checks that u can be sent and prepares its request line.
func NewRequest(u gemurl.URL) (*Request, error) {
	host, ok := u.Host()

	if u.Scheme() != gemurl.SchemeGemini {
		return nil, &Error{Kind: ErrUnsupportedScheme, Host: host.Name, Detail: string(u.Scheme())}
	}
	if !ok {
		return nil, &Error{Kind: ErrNoHost, Detail: u.String()}
	}

	line := u.String()
	if len(line) > MaxRequestLength {
		return nil, &Error{
			Kind:   ErrRequestTooLong,
			Host:   host.Name,
			Detail: fmt.Sprintf("%d bytes, limit %d", len(line), MaxRequestLength),
		}
	}

	return &Request{url: u, host: host, line: line}, nil
}

// URL returns the requested URL.
func (r *Request) URL() gemurl.URL {
	return r.url
}

// Host returns the server the request is sent to.
func (r *Request) Host() gemurl.Host {
	return r.host
}

// String returns the wire form of the request, CRLF included.
func (r *Request) String() string {
	return r.line + "\r\n"
}

func (r *Request) addr() string {
	return net.JoinHostPort(r.host.Name, strconv.Itoa(int(r.host.Port)))
}
