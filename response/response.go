// Package response models Gemini responses and parses them from the wire.
//
// A response is one of six group types, each tagged with its exact
// [Status]:
//
//	Input                10, 11
//	Success              20
//	Redirect             30, 31
//	TemporaryFailure     40-44
//	PermanentFailure     50-53, 59
//	CertificateRequired  60-62
//
// Use a type switch to branch on the group.
package response

// Response is implemented by the group types in this package only.
type Response interface {
	// Status returns the exact status code.
	Status() Status
	// Meta returns the text following the status code on the header line.
	Meta() string
	// String serializes the response in wire format.
	String() string

	response()
}

// Input asks the user for a line of text. Code is 10 or 11 (sensitive).
type Input struct {
	Code   Status
	Prompt string
}

// Success carries a body. Body holds the raw bytes received after the
// header line, unvalidated.
type Success struct {
	MIME MIMEType
	Body string
}

// Redirect points at another URL. Code is 30 or 31. URL is verbatim and
// not parsed.
type Redirect struct {
	Code Status
	URL  string
}

// TemporaryFailure reports a 4x failure.
type TemporaryFailure struct {
	Code Status
	Info string
}

// PermanentFailure reports a 5x failure.
type PermanentFailure struct {
	Code Status
	Info string
}

// CertificateRequired reports a 6x client certificate condition.
type CertificateRequired struct {
	Code Status
	Info string
}

func (r Input) Status() Status               { return r.Code }
func (r Success) Status() Status             { return StatusSuccess }
func (r Redirect) Status() Status            { return r.Code }
func (r TemporaryFailure) Status() Status    { return r.Code }
func (r PermanentFailure) Status() Status    { return r.Code }
func (r CertificateRequired) Status() Status { return r.Code }

func (r Input) Meta() string               { return r.Prompt }
func (r Success) Meta() string             { return r.MIME.String() }
func (r Redirect) Meta() string            { return r.URL }
func (r TemporaryFailure) Meta() string    { return r.Info }
func (r PermanentFailure) Meta() string    { return r.Info }
func (r CertificateRequired) Meta() string { return r.Info }

func (r Input) String() string               { return format(r.Code, r.Prompt, "") }
func (r Success) String() string             { return format(StatusSuccess, r.MIME.String(), r.Body) }
func (r Redirect) String() string            { return format(r.Code, r.URL, "") }
func (r TemporaryFailure) String() string    { return format(r.Code, r.Info, "") }
func (r PermanentFailure) String() string    { return format(r.Code, r.Info, "") }
func (r CertificateRequired) String() string { return format(r.Code, r.Info, "") }

func (Input) response()               {}
func (Success) response()             {}
func (Redirect) response()            {}
func (TemporaryFailure) response()    {}
func (PermanentFailure) response()    {}
func (CertificateRequired) response() {}

func format(code Status, meta, body string) string {
	return code.Code() + " " + meta + "\r\n" + body
}
