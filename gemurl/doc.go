// Package gemurl models and parses the URL dialect spoken by Gemini clients.
//
// # Parsing
//
// [Parse] is a small recursive-descent parser over the grammar
//
//	url       := scheme? authority? path query?
//	scheme    := ("gemini" | "about") ":"
//	authority := "//" hostname (":" port)?
//	hostname  := label ("." label)+
//	path      := segment ("/" segment)*
//	query     := "?" any-text
//
// The first alternative that matches wins. Once "//" has been consumed the
// authority is committed, so "gemini://localhost/" is an error rather than
// a path. Unconsumed input after the grammar is satisfied is an error.
// The about scheme has no network authority, so "about://" is rejected.
//
// # Bare domains
//
// Text with neither a scheme nor an authority whose first path segment is
// itself a hostname is read as a host: "example.com/docs" becomes
// "gemini://example.com/docs". This is ambiguous for relative paths that
// start with a dotted segment ("notes.gmi/x" is read as a host too). The
// behaviour is kept as-is; callers that need a relative path should use a
// [Config] instead.
//
// # Building
//
// [Build] constructs a URL from a [Config]. Zero fields take the documented
// defaults: scheme gemini, port 1965 and path "/".
package gemurl
