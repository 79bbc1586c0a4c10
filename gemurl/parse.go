package gemurl

import (
	"strconv"
	"strings"
)

// Parse converts text into a URL. See the package documentation for the
// grammar and the bare-domain rule.
func Parse(text string) (URL, error) {
	if text == "" {
		return URL{}, &ParseError{Input: text, Err: ErrEmpty}
	}

	p := parser{in: text}
	u := URL{scheme: SchemeGemini}

	scheme, hasScheme := p.scheme()
	if hasScheme {
		u.scheme = scheme
	}
	if u.scheme == SchemeAbout && strings.HasPrefix(p.rest(), "//") {
		return URL{}, p.fail(ErrUnexpectedAuthority)
	}

	host, hasAuthority, err := p.authority()
	if err != nil {
		return URL{}, err
	}
	if hasAuthority {
		u.host, u.hasHost = host, true
	}

	path := p.path()
	if !hasScheme && !hasAuthority {
		if name, rest, ok := bareHost(path); ok {
			u.host, u.hasHost = Host{Name: name, Port: DefaultPort}, true
			path = rest
		}
	}
	if path == "" {
		path = DefaultPath
	}
	u.path = path

	u.query, u.hasQuery = p.query()

	if p.pos != len(p.in) {
		return URL{}, p.fail(ErrTrailingInput)
	}

	return u, nil
}

// parser walks the input left to right. Each rule either consumes what it
// matched or leaves pos untouched.
type parser struct {
	in  string
	pos int
}

func (p *parser) rest() string { return p.in[p.pos:] }

func (p *parser) fail(err error) *ParseError {
	return &ParseError{Input: p.in, Offset: p.pos, Err: err}
}

func (p *parser) consume(tag string) bool {
	if strings.HasPrefix(p.rest(), tag) {
		p.pos += len(tag)
		return true
	}
	return false
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.in) {
		return 0, false
	}
	return p.in[p.pos], true
}

// scheme := ("gemini" | "about") ":"
func (p *parser) scheme() (Scheme, bool) {
	for _, s := range schemes {
		if p.consume(string(s) + ":") {
			return s, true
		}
	}
	return "", false
}

// authority := "//" hostname (":" port)?
func (p *parser) authority() (Host, bool, error) {
	if !p.consume("//") {
		return Host{}, false, nil
	}

	n := scanHostname(p.rest())
	if n == 0 {
		return Host{}, false, p.fail(ErrInvalidHostname)
	}
	host := Host{Name: p.in[p.pos : p.pos+n], Port: DefaultPort}
	p.pos += n

	if p.consume(":") {
		port, err := p.port()
		if err != nil {
			return Host{}, false, err
		}
		host.Port = port
	}

	// Anything other than a path or query directly after the authority
	// would be folded into the hostname on re-serialization.
	if c, ok := p.peek(); ok && c != '/' && c != '?' {
		return Host{}, false, p.fail(ErrTrailingInput)
	}

	return host, true, nil
}

func (p *parser) port() (uint16, error) {
	start := p.pos
	for c, ok := p.peek(); ok && isDigit(c); c, ok = p.peek() {
		p.pos++
	}
	if p.pos == start {
		return 0, p.fail(ErrInvalidPort)
	}

	n, err := strconv.ParseUint(p.in[start:p.pos], 10, 16)
	if err != nil {
		p.pos = start
		return 0, p.fail(ErrInvalidPort)
	}
	return uint16(n), nil
}

// path := segment ("/" segment)*
func (p *parser) path() string {
	start := p.pos
	for c, ok := p.peek(); ok && (c == '/' || isSegmentByte(c)); c, ok = p.peek() {
		p.pos++
	}
	return p.in[start:p.pos]
}

// query := "?" any-text
func (p *parser) query() (string, bool) {
	if !p.consume("?") {
		return "", false
	}
	start := p.pos
	for c, ok := p.peek(); ok && !isCTL(c); c, ok = p.peek() {
		p.pos++
	}
	return p.in[start:p.pos], true
}

// bareHost reports whether the first segment of path is a hostname and, if
// so, splits it from the remainder.
func bareHost(path string) (name, rest string, ok bool) {
	seg := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		seg, rest = path[:i], path[i:]
	}
	if seg == "" || scanHostname(seg) != len(seg) {
		return "", "", false
	}
	return seg, rest, true
}

// scanHostname returns the length of the hostname at the start of s, or 0.
// A hostname needs at least two labels.
func scanHostname(s string) int {
	n := scanLabel(s)
	if n == 0 {
		return 0
	}

	labels := 1
	for n < len(s) && s[n] == '.' {
		l := scanLabel(s[n+1:])
		if l == 0 {
			break
		}
		n += 1 + l
		labels++
	}

	if labels < 2 {
		return 0
	}
	return n
}

func scanLabel(s string) int {
	n := 0
	for n < len(s) && isLabelByte(s[n]) {
		n++
	}
	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLabelByte(c byte) bool {
	return isDigit(c) || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isCTL(c byte) bool { return c < 0x20 || c == 0x7f }

func isSegmentByte(c byte) bool {
	return c != '/' && c != '?' && c != '#' && c != ' ' && !isCTL(c)
}
