package response

import (
	"strconv"
	"strings"
)

const crlf = "\r\n"

// Parse converts a complete response buffer, as read up to connection
// close, into a Response. The rules are tried in a fixed order and the
// first one whose status code matches owns the rest of the input:
//
//	"1x <prompt>\r\n"            no body
//	"20 <mime>\r\n<body>"        body taken verbatim
//	"3x <url>\r\n"               no body
//	"4x|5x|6x <info>\r\n"        no body
//
// Status codes are matched as two-character tokens; any other code is an
// [ErrUnknownStatus] error.
func Parse(raw []byte) (Response, error) {
	p := parser{in: string(raw)}

	if len(p.in) < 2 {
		return nil, p.fail(ErrMalformedHeader, "response shorter than a status code")
	}

	for _, rule := range rules {
		resp, err := rule(&p)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}

	return nil, p.fail(ErrUnknownStatus, strconv.Quote(p.in[:2]))
}

// rule returns (nil, nil) when its status codes don't match, leaving the
// parser untouched. Once a code matches the rule is committed.
type rule func(p *parser) (Response, error)

var rules = []rule{
	input,
	success,
	redirect,
	info(func(c Status, s string) Response { return TemporaryFailure{Code: c, Info: s} },
		StatusTemporaryFailure, StatusServerUnavailable, StatusCGIError, StatusProxyError, StatusSlowDown),
	info(func(c Status, s string) Response { return PermanentFailure{Code: c, Info: s} },
		StatusPermanentFailure, StatusNotFound, StatusGone, StatusProxyRequestRefused, StatusBadRequest),
	info(func(c Status, s string) Response { return CertificateRequired{Code: c, Info: s} },
		StatusClientCertificateRequired, StatusCertificateNotAuthorized, StatusCertificateNotValid),
}

func input(p *parser) (Response, error) {
	code, ok := p.status(StatusInput, StatusSensitiveInput)
	if !ok {
		return nil, nil
	}

	prompt, err := p.metaLine()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}

	return Input{Code: code, Prompt: prompt}, nil
}

func success(p *parser) (Response, error) {
	if _, ok := p.status(StatusSuccess); !ok {
		return nil, nil
	}
	if !p.consume(" ") {
		return nil, p.fail(ErrMalformedHeader, "expected space after status")
	}

	mime, err := p.mimeType()
	if err != nil {
		return nil, err
	}

	body := p.in[p.pos:]
	p.pos = len(p.in)

	return Success{MIME: mime, Body: body}, nil
}

func redirect(p *parser) (Response, error) {
	code, ok := p.status(StatusTemporaryRedirect, StatusPermanentRedirect)
	if !ok {
		return nil, nil
	}

	target, err := p.metaLine()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}

	return Redirect{Code: code, URL: target}, nil
}

// info builds a rule for the single-line failure groups.
func info(build func(Status, string) Response, codes ...Status) rule {
	return func(p *parser) (Response, error) {
		code, ok := p.status(codes...)
		if !ok {
			return nil, nil
		}

		text, err := p.metaLine()
		if err != nil {
			return nil, err
		}
		if err := p.end(); err != nil {
			return nil, err
		}

		return build(code, text), nil
	}
}

type parser struct {
	in  string
	pos int
}

func (p *parser) rest() string { return p.in[p.pos:] }

func (p *parser) fail(err error, detail string) *ParseError {
	return &ParseError{Offset: p.pos, Detail: detail, Err: err}
}

func (p *parser) consume(tag string) bool {
	if strings.HasPrefix(p.rest(), tag) {
		p.pos += len(tag)
		return true
	}
	return false
}

func (p *parser) status(codes ...Status) (Status, bool) {
	for _, c := range codes {
		if p.consume(c.Code()) {
			return c, true
		}
	}
	return 0, false
}

// metaLine consumes " <text>\r\n" and returns text, which may be empty.
func (p *parser) metaLine() (string, error) {
	if !p.consume(" ") {
		return "", p.fail(ErrMalformedHeader, "expected space after status")
	}

	i := strings.Index(p.rest(), crlf)
	if i < 0 {
		return "", p.fail(ErrMalformedHeader, "header line not terminated by CRLF")
	}

	text := p.in[p.pos : p.pos+i]
	p.pos += i + len(crlf)

	return text, nil
}

// mimeType consumes "<type>[;charset=<charset>]\r\n".
func (p *parser) mimeType() (MIMEType, error) {
	var mime MIMEType

	for _, t := range mediaTypes {
		if p.consume(string(t)) {
			mime.Type = t
			break
		}
	}
	if mime.Type == "" {
		return MIMEType{}, p.fail(ErrUnknownMIMEType, strconv.Quote(p.headerRest()))
	}

	if !p.consume(";charset=") {
		if !p.consume(crlf) {
			return MIMEType{}, p.fail(ErrUnknownMIMEType, strconv.Quote(p.headerRest()))
		}
		return NewMIMEType(mime.Type, ""), nil
	}

	for _, c := range charsets {
		if p.consume(string(c)) {
			mime.Charset = c
			break
		}
	}
	if mime.Charset == "" || !p.consume(crlf) {
		return MIMEType{}, p.fail(ErrUnknownCharset, strconv.Quote(p.headerRest()))
	}

	return mime, nil
}

// headerRest returns the remainder of the current header line for error
// details.
func (p *parser) headerRest() string {
	rest := p.rest()
	if i := strings.Index(rest, crlf); i >= 0 {
		return rest[:i]
	}
	return rest
}

func (p *parser) end() error {
	if p.pos != len(p.in) {
		return p.fail(ErrTrailingInput, strconv.Itoa(len(p.in)-p.pos)+" bytes")
	}
	return nil
}
