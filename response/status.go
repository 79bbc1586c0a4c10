package response

import "strconv"

// Status is a two-digit Gemini status code.
type Status uint8

const (
	StatusInput          Status = 10
	StatusSensitiveInput Status = 11

	StatusSuccess Status = 20

	StatusTemporaryRedirect Status = 30
	StatusPermanentRedirect Status = 31

	StatusTemporaryFailure  Status = 40
	StatusServerUnavailable Status = 41
	StatusCGIError          Status = 42
	StatusProxyError        Status = 43
	StatusSlowDown          Status = 44

	StatusPermanentFailure    Status = 50
	StatusNotFound            Status = 51
	StatusGone                Status = 52
	StatusProxyRequestRefused Status = 53
	StatusBadRequest          Status = 59

	StatusClientCertificateRequired Status = 60
	StatusCertificateNotAuthorized  Status = 61
	StatusCertificateNotValid       Status = 62
)

// Group is a status-code range sharing a payload shape.
type Group uint8

const (
	GroupUnknown Group = iota
	GroupInput
	GroupSuccess
	GroupRedirect
	GroupTemporaryFailure
	GroupPermanentFailure
	GroupCertificateRequired
)

var statusNames = map[Status]string{
	StatusInput:                     "Input",
	StatusSensitiveInput:            "Sensitive Input",
	StatusSuccess:                   "Success",
	StatusTemporaryRedirect:         "Temporary Redirect",
	StatusPermanentRedirect:         "Permanent Redirect",
	StatusTemporaryFailure:          "Temporary Failure",
	StatusServerUnavailable:         "Server Unavailable",
	StatusCGIError:                  "CGI Error",
	StatusProxyError:                "Proxy Error",
	StatusSlowDown:                  "Slow Down",
	StatusPermanentFailure:          "Permanent Failure",
	StatusNotFound:                  "Not Found",
	StatusGone:                      "Gone",
	StatusProxyRequestRefused:       "Proxy Request Refused",
	StatusBadRequest:                "Bad Request",
	StatusClientCertificateRequired: "Client Certificate Required",
	StatusCertificateNotAuthorized:  "Certificate Not Authorized",
	StatusCertificateNotValid:       "Certificate Not Valid",
}

// Known reports whether s is one of the defined status codes.
func (s Status) Known() bool {
	_, ok := statusNames[s]
	return ok
}

// Group returns the range s belongs to, or GroupUnknown.
func (s Status) Group() Group {
	if !s.Known() {
		return GroupUnknown
	}

	switch s / 10 {
	case 1:
		return GroupInput
	case 2:
		return GroupSuccess
	case 3:
		return GroupRedirect
	case 4:
		return GroupTemporaryFailure
	case 5:
		return GroupPermanentFailure
	case 6:
		return GroupCertificateRequired
	}
	return GroupUnknown
}

// Code renders the status as its two-character wire token.
func (s Status) Code() string {
	if s < 10 {
		return "0" + strconv.Itoa(int(s))
	}
	return strconv.Itoa(int(s))
}

// String returns "<code> <name>", e.g. "51 Not Found".
func (s Status) String() string {
	name, ok := statusNames[s]
	if !ok {
		name = "Unknown"
	}
	return s.Code() + " " + name
}
