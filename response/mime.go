package response

// MediaType is the type/subtype part of a success response's MIME type.
type MediaType string

const (
	MediaTypeGemini MediaType = "text/gemini"
	MediaTypePlain  MediaType = "text/plain"
)

var mediaTypes = []MediaType{MediaTypePlain, MediaTypeGemini}

// Charset is the charset parameter of a MIME type.
type Charset string

const (
	CharsetUTF8    Charset = "utf-8"
	CharsetUSASCII Charset = "us-ascii"
)

var charsets = []Charset{CharsetUTF8, CharsetUSASCII}

// DefaultCharset applies when a MIME type omits the charset parameter.
const DefaultCharset = CharsetUTF8

// MIMEType describes the body of a [Success] response.
type MIMEType struct {
	Type    MediaType
	Charset Charset
}

// NewMIMEType returns a MIMEType, defaulting the charset to utf-8 when
// charset is empty.
func NewMIMEType(t MediaType, charset Charset) MIMEType {
	if charset == "" {
		charset = DefaultCharset
	}
	return MIMEType{Type: t, Charset: charset}
}

// String always renders the charset parameter.
func (m MIMEType) String() string {
	return string(m.Type) + ";charset=" + string(m.Charset)
}
